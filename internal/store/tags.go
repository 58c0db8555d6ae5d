package store

import (
	"context"

	"github.com/GregMSThompson/pocket-ledger/internal/models"
)

type tagStore struct {
	kv KV
}

func NewTagStore(kv KV) *tagStore {
	return &tagStore{kv: kv}
}

// Load returns the registry, seeding defaults for kinds that were never stored.
func (s *tagStore) Load(ctx context.Context) (models.Tags, error) {
	tags := models.Tags{}
	found, err := s.kv.Get(ctx, KeyTags, &tags)
	if err != nil {
		return nil, err
	}
	defaults := models.DefaultTags()
	if !found {
		return defaults, nil
	}
	for _, kind := range models.TagKinds {
		if _, ok := tags[kind]; !ok {
			tags[kind] = defaults[kind]
		}
	}
	return tags, nil
}

func (s *tagStore) Save(ctx context.Context, tags models.Tags) error {
	return s.kv.Set(ctx, KeyTags, tags)
}
