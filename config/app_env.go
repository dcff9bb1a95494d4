package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mcsoccercamp/camp-api/internal/log"
	"github.com/mcsoccercamp/camp-api/pkg/utils"
)

const (
	AppEnvKey = "APP_ENV"

	// envFilesKey lists dotenv files to load, comma separated. Defaults to ".env".
	envFilesKey = "ENV_FILE"
)

var devEnvironments = map[string]bool{
	"":            true,
	"dev":         true,
	"development": true,
	"local":       true,
	"test":        true,
	"testing":     true,
}

// IsLambdaRuntime reports whether the process was started by AWS Lambda.
func IsLambdaRuntime() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// InitializeEnvFile loads dotenv files into the process environment. Values already
// set in the environment win. Lambda functions get their settings from the function
// configuration, so nothing is loaded there.
func InitializeEnvFile(logger *log.Logger) {
	if utils.GetEnvBool("SKIP_DOTENV", false) {
		logger.Info("Skipping .env load", "reason", "SKIP_DOTENV")
		return
	}
	if IsLambdaRuntime() {
		logger.Info("Skipping .env load", "reason", "lambda runtime")
		return
	}

	files := envFiles()
	if err := godotenv.Load(files...); err != nil {
		logger.Warn("Environment file not loaded", "files", strings.Join(files, ","), "error", err.Error())
		return
	}

	logger.Info("Environment file loaded", "files", strings.Join(files, ","))
}

func envFiles() []string {
	var files []string
	for _, f := range strings.Split(os.Getenv(envFilesKey), ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return []string{".env"}
	}
	return files
}

func GetValueFromEnvironmentVariable(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func GetAppEnv() string {
	return strings.ToLower(utils.GetEnvTrimmed(AppEnvKey))
}

// IsDevEnvironment treats an unset APP_ENV as development.
func IsDevEnvironment(appEnv string) bool {
	return devEnvironments[strings.ToLower(strings.TrimSpace(appEnv))]
}

// ValidateAutoMigrateAllowed keeps --auto-migrate away from shared databases; those
// are migrated with the cli migrate command instead.
func ValidateAutoMigrateAllowed(appEnv string) error {
	if IsDevEnvironment(appEnv) {
		return nil
	}
	env := strings.ToLower(strings.TrimSpace(appEnv))
	return fmt.Errorf("--auto-migrate is not allowed when %s=%q; run `cli migrate` against that database instead", AppEnvKey, env)
}
