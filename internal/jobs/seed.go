package jobs

import (
	"time"

	"github.com/rs/zerolog/log"

	"cineshuffle-server/internal/id"
	"cineshuffle-server/internal/model"
	"cineshuffle-server/internal/store"
)

// SeedIfEmpty populates the store with a couple of starter folders and
// movies when it holds nothing. Dev/demo convenience only; no-op once
// any folder exists.
func SeedIfEmpty(s *store.Store) {
	if len(s.Folders()) > 0 {
		return
	}

	now := time.Now().UnixMilli()

	aiPrompt := "Underrated 90s Sci-Fi movies"
	scifi := model.Folder{
		ID:        id.MustGenerate(id.PrefixFolder),
		Name:      "90s Sci-Fi Gems",
		Type:      model.FolderAI,
		AIPrompt:  &aiPrompt,
		CreatedAt: now - 10_000,
	}
	weekend := model.Folder{
		ID:        id.MustGenerate(id.PrefixFolder),
		Name:      "Weekend Watch",
		Type:      model.FolderStandard,
		CreatedAt: now,
	}
	s.AddFolder(scifi)
	s.AddFolder(weekend)

	seedMovies := []struct {
		folderID string
		title    string
		year     string
		overview string
	}{
		{weekend.ID, "Inception", "2010", "A thief who steals corporate secrets through the use of dream-sharing technology."},
		{scifi.ID, "Dark City", "1998", "A man struggles with memories of his past, including a wife he cannot remember, in a nightmarish world."},
		{scifi.ID, "Gattaca", "1997", "A genetically inferior man assumes the identity of a superior one in order to pursue his lifelong dream of space travel."},
	}
	for i := len(seedMovies) - 1; i >= 0; i-- {
		sm := seedMovies[i]
		ov := sm.overview
		s.AddMovie(model.Movie{
			ID:       id.MustGenerate(id.PrefixMovie),
			Title:    sm.title,
			Year:     sm.year,
			Overview: &ov,
			FolderID: sm.folderID,
			AddedAt:  now,
		})
	}

	log.Info().Int("folders", 2).Int("movies", len(seedMovies)).Msg("seeded demo library as store was empty")
}
