package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/errs"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
	"github.com/GregMSThompson/pocket-ledger/pkg/logger"
)

const (
	maxSuggestions     = 3
	maxSuggestDistance = 2
)

type tagRegistryStore interface {
	Load(ctx context.Context) (models.Tags, error)
	Save(ctx context.Context, tags models.Tags) error
}

type tagRenamer interface {
	RenameField(ctx context.Context, kind models.TagKind, oldName, newName string) (int, error)
}

type tagService struct {
	tags tagRegistryStore
	txs  tagRenamer

	mu sync.Mutex
}

func NewTagService(tags tagRegistryStore, txs tagRenamer) *tagService {
	return &tagService{tags: tags, txs: txs}
}

func (s *tagService) List(ctx context.Context, kind models.TagKind) ([]models.Tag, error) {
	if err := validateTagKind(kind); err != nil {
		return nil, err
	}
	tags, err := s.tags.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := tags[kind]
	if out == nil {
		out = []models.Tag{}
	}
	return out, nil
}

func (s *tagService) All(ctx context.Context) (models.Tags, error) {
	return s.tags.Load(ctx)
}

// Add appends a tag. Names are unique per kind ignoring case.
func (s *tagService) Add(ctx context.Context, kind models.TagKind, tag models.Tag) (models.Tag, error) {
	if err := validateTagKind(kind); err != nil {
		return tag, err
	}
	tag.Name = strings.TrimSpace(tag.Name)
	if tag.Name == "" {
		return tag, errs.NewValidationError("tag name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tags, err := s.tags.Load(ctx)
	if err != nil {
		return tag, err
	}
	if indexOfTag(tags[kind], tag.Name, -1) >= 0 {
		return tag, errs.NewAlreadyExistsError("tag already exists")
	}
	tags[kind] = append(tags[kind], tag)
	if err := s.tags.Save(ctx, tags); err != nil {
		return tag, err
	}
	return tag, nil
}

// Update renames and/or re-icons the tag called name. A rename cascades into
// every transaction whose field equals the old name exactly.
func (s *tagService) Update(ctx context.Context, kind models.TagKind, name string, req dto.UpdateTagRequest) (dto.RenameTagResult, error) {
	if err := validateTagKind(kind); err != nil {
		return dto.RenameTagResult{}, err
	}
	newName := strings.TrimSpace(req.Name)
	if newName == "" {
		newName = name
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tags, err := s.tags.Load(ctx)
	if err != nil {
		return dto.RenameTagResult{}, err
	}
	idx := exactTagIndex(tags[kind], name)
	if idx < 0 {
		return dto.RenameTagResult{}, errs.NewNotFoundError("tag not found")
	}
	renamed := newName != name
	if renamed {
		if kind == models.TagStatuses && isReminderStatus(name) {
			return dto.RenameTagResult{}, errs.NewValidationError("built-in statuses cannot be renamed")
		}
		if indexOfTag(tags[kind], newName, idx) >= 0 {
			return dto.RenameTagResult{}, errs.NewAlreadyExistsError("tag already exists")
		}
	}

	result := dto.RenameTagResult{}
	if renamed {
		n, err := s.txs.RenameField(ctx, kind, name, newName)
		if err != nil {
			return result, err
		}
		result.UpdatedTransactions = n
	}

	tag := tags[kind][idx]
	tag.Name = newName
	if req.Icon != "" {
		tag.Icon = req.Icon
	}
	tags[kind][idx] = tag
	if err := s.tags.Save(ctx, tags); err != nil {
		return result, err
	}
	result.Tag = tag

	if renamed {
		logger.FromContext(ctx).Info("tag renamed", "kind", kind, "from", name, "to", newName, "transactions", result.UpdatedTransactions)
	}
	return result, nil
}

// Delete removes the tag only. Transactions keep the old value.
func (s *tagService) Delete(ctx context.Context, kind models.TagKind, name string) error {
	if err := validateTagKind(kind); err != nil {
		return err
	}
	if kind == models.TagStatuses && isReminderStatus(name) {
		return errs.NewValidationError("built-in statuses cannot be deleted")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tags, err := s.tags.Load(ctx)
	if err != nil {
		return err
	}
	idx := exactTagIndex(tags[kind], name)
	if idx < 0 {
		return errs.NewNotFoundError("tag not found")
	}
	tags[kind] = append(tags[kind][:idx], tags[kind][idx+1:]...)
	return s.tags.Save(ctx, tags)
}

// Resolve finds name ignoring case, or suggests the closest names.
func (s *tagService) Resolve(ctx context.Context, kind models.TagKind, name string) (dto.TagResolution, error) {
	list, err := s.List(ctx, kind)
	if err != nil {
		return dto.TagResolution{}, err
	}
	if idx := indexOfTag(list, name, -1); idx >= 0 {
		match := list[idx]
		return dto.TagResolution{Match: &match}, nil
	}
	return dto.TagResolution{Suggestions: suggestTags(list, name)}, nil
}

func suggestTags(list []models.Tag, name string) []string {
	type candidate struct {
		name string
		dist int
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	var cands []candidate
	for _, t := range list {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(t.Name))
		if d <= maxSuggestDistance {
			cands = append(cands, candidate{t.Name, d})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	out := make([]string, 0, maxSuggestions)
	for i := 0; i < len(cands) && i < maxSuggestions; i++ {
		out = append(out, cands[i].name)
	}
	return out
}

func validateTagKind(kind models.TagKind) error {
	for _, k := range models.TagKinds {
		if k == kind {
			return nil
		}
	}
	return errs.NewValidationError("unknown tag kind")
}

func isReminderStatus(name string) bool {
	return name == models.StatusDone || name == models.StatusPending || name == models.StatusInFuture
}

func exactTagIndex(list []models.Tag, name string) int {
	for i, t := range list {
		if t.Name == name {
			return i
		}
	}
	return -1
}

// indexOfTag matches ignoring case, skipping index skip.
func indexOfTag(list []models.Tag, name string, skip int) int {
	for i, t := range list {
		if i != skip && strings.EqualFold(t.Name, name) {
			return i
		}
	}
	return -1
}
