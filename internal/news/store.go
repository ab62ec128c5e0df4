/*
Package news
File: store.go
Description:
    The galactic news feed: append-only, retention-pruned, audience
    filtered. Single writer per process via jsonstore's temp-file +
    rename.
*/
package news

import (
	"strings"

	"github.com/google/uuid"

	"github.com/everforgeworks/sector-commander/internal/jsonstore"
	"github.com/everforgeworks/sector-commander/internal/model"
)

type fileShape struct {
	Items []*model.NewsEntry `json:"items"`
}

type Store struct {
	store *jsonstore.Store
}

func New(path string) *Store {
	return &Store{store: jsonstore.New(path)}
}

func (s *Store) Load() ([]*model.NewsEntry, error) {
	shape := fileShape{}
	if err := s.store.Load(&shape); err != nil {
		return nil, err
	}
	return shape.Items, nil
}

// Append adds a news entry and prunes anything older than retentionDays
// relative to now, atomically.
func (s *Store) Append(entry *model.NewsEntry, now, retentionDays float64) error {
	if entry.ID == "" {
		entry.ID = strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	}
	shape := fileShape{}
	return s.store.Mutate(&shape, func() error {
		shape.Items = append(shape.Items, entry)
		cutoff := now - retentionDays*86400
		var kept []*model.NewsEntry
		for _, it := range shape.Items {
			if it.Timestamp >= cutoff {
				kept = append(kept, it)
			}
		}
		shape.Items = kept
		return nil
	})
}

// UnseenFor returns entries visible to player within [now-lookbackDays,
// now] whose timestamp is strictly after watermark and whose audience
// matches: global entries match everyone, player entries match only
// their named player.
func UnseenFor(entries []*model.NewsEntry, player string, watermark, now, lookbackDays float64) []*model.NewsEntry {
	var out []*model.NewsEntry
	windowStart := now - lookbackDays*86400
	for _, e := range entries {
		if e.Timestamp < windowStart || e.Timestamp > now {
			continue
		}
		if e.Timestamp <= watermark {
			continue
		}
		switch e.Audience {
		case model.AudienceGlobal:
			out = append(out, e)
		case model.AudiencePlayer:
			if e.Player == player {
				out = append(out, e)
			}
		}
	}
	return out
}
