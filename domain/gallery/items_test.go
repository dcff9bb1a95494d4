package gallery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildItems(t *testing.T) {
	items := BuildItems([]string{
		"serious.png",
		".DS_Store",
		"notes.txt",
		"IMG_1446 (1)-Animated Image (Large).gif",
		"happy.png",
		"kickoff.MP4",
		"2024teamPic.png",
		"happy.png",
	}, "https://camp.example.com/")

	require.Len(t, items, 5)

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Filename)
	}
	assert.Equal(t, []string{
		"2024teamPic.png",
		"happy.png",
		"IMG_1446 (1)-Animated Image (Large).gif",
		"kickoff.MP4",
		"serious.png",
	}, names)

	for i, item := range items {
		assert.Equal(t, i+1, item.ID)
	}

	gif := items[2]
	assert.Equal(t, "image", gif.Type)
	assert.Equal(t, "gif", gif.Format)
	assert.Equal(t, "https://camp.example.com/media/gallery/IMG_1446%20%281%29-Animated%20Image%20%28Large%29.gif", gif.Src)

	video := items[3]
	assert.Equal(t, "video", video.Type)
	assert.Equal(t, "mp4", video.Format)
}

func TestBuildItems_RelativeSrcWithoutBaseURL(t *testing.T) {
	items := BuildItems([]string{"happy.png"}, "")

	require.Len(t, items, 1)
	assert.Equal(t, "/media/gallery/happy.png", items[0].Src)
}

func TestEmbeddedSourceListsDefaultGallery(t *testing.T) {
	names, err := EmbeddedSource{}.Filenames(context.Background())
	require.NoError(t, err)

	assert.Len(t, names, 59)
	assert.Contains(t, names, "mcSoccerCamp2024-28.jpg")
	assert.Contains(t, names, "IMG_1442 copy-Animated Image (Large).gif")
	assert.Contains(t, names, "serious.png")
	assert.Len(t, BuildItems(names, ""), 59)
}
