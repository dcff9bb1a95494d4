package gallery

import (
	"net/url"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const mediaPathPrefix = "/media/gallery/"

var mediaTypes = map[string]string{
	"jpg":  "image",
	"jpeg": "image",
	"png":  "image",
	"gif":  "image",
	"webp": "image",
	"mp4":  "video",
	"mov":  "video",
	"avi":  "video",
}

// BuildItems filters filenames to supported media, sorts them the way a person
// would read them and numbers them from 1.
func BuildItems(filenames []string, baseURL string) []MediaItem {
	seen := make(map[string]struct{}, len(filenames))
	kept := make([]string, 0, len(filenames))

	for _, name := range filenames {
		name = strings.TrimSpace(name)
		if name == "" || strings.HasPrefix(name, ".") {
			continue
		}
		if _, ok := mediaTypes[extension(name)]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		kept = append(kept, name)
	}

	collator := collate.New(language.English)
	sort.SliceStable(kept, func(i, j int) bool {
		return collator.CompareString(kept[i], kept[j]) < 0
	})

	base := strings.TrimRight(baseURL, "/")
	items := make([]MediaItem, 0, len(kept))
	for i, name := range kept {
		ext := extension(name)
		items = append(items, MediaItem{
			ID:       i + 1,
			Type:     mediaTypes[ext],
			Src:      base + mediaPathPrefix + url.PathEscape(name),
			Format:   ext,
			Filename: name,
		})
	}
	return items
}

func extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}
