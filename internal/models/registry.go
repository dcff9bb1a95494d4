package models

// ModelRegistry lists every model managed by gorm AutoMigrate.
var ModelRegistry = []any{
	&Registration{},
	&ContactSubmission{},
	&Waiver{},
}
