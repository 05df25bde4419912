package memory

import (
	"cmp"
	"commentadmin/app/comment"
	"commentadmin/domain"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Repository keeps every collection in process memory. It backs the
// "memory" storage driver and the test suites.
type Repository struct {
	mu         sync.RWMutex
	comments   []domain.Comment
	items      []domain.Item
	itemGuides []domain.ItemGuide
	itemRules  []domain.ItemRule
	rules      []domain.Rule
	failures   []domain.SystemFailure
	systemLogs []domain.SystemLog
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) Close() error {
	return nil
}

func (r *Repository) AddItem(items ...domain.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, items...)
}

func (r *Repository) AddItemGuide(guides ...domain.ItemGuide) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.itemGuides = append(r.itemGuides, guides...)
}

func (r *Repository) AddItemRule(itemRules ...domain.ItemRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.itemRules = append(r.itemRules, itemRules...)
}

func (r *Repository) AddRule(rules ...domain.Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rules...)
}

func (r *Repository) CreateComment(_ context.Context, c domain.Comment) (domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = uuid.New().String()
	r.comments = append(r.comments, c)
	return c, nil
}

func (r *Repository) FindComments(_ context.Context, filter comment.CommentFilter) ([]domain.Comment, error) {
	if filter.Skip < 0 || filter.Limit < 0 {
		return nil, fmt.Errorf("invalid comment window skip=%d limit=%d", filter.Skip, filter.Limit)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Comment, 0, len(r.comments))
	for _, c := range r.comments {
		if filter.Score == 0 || c.Score == filter.Score {
			matched = append(matched, c)
		}
	}

	if filter.Skip >= int64(len(matched)) {
		return []domain.Comment{}, nil
	}
	matched = matched[filter.Skip:]

	if filter.Limit > 0 && filter.Limit < int64(len(matched)) {
		matched = matched[:filter.Limit]
	}

	return slices.Clone(matched), nil
}

func (r *Repository) CountComments(_ context.Context, score int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, c := range r.comments {
		if score == 0 || c.Score == score {
			count++
		}
	}
	return count, nil
}

func (r *Repository) CountCommentsByScore(_ context.Context) ([]domain.ScoreCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[int]int)
	for _, c := range r.comments {
		counts[c.Score]++
	}

	groups := make([]domain.ScoreCount, 0, len(counts))
	for score, count := range counts {
		groups = append(groups, domain.ScoreCount{Score: score, Count: count})
	}
	slices.SortFunc(groups, func(a, b domain.ScoreCount) int {
		return cmp.Compare(a.Score, b.Score)
	})

	return groups, nil
}

func (r *Repository) GetItem(_ context.Context, itemID string) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return find(r.items, func(i domain.Item) bool { return i.ItemID == itemID }), nil
}

func (r *Repository) GetItemGuide(_ context.Context, itemGuideID string) (*domain.ItemGuide, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return find(r.itemGuides, func(g domain.ItemGuide) bool { return g.ItemGuideID == itemGuideID }), nil
}

func (r *Repository) GetItemRule(_ context.Context, itemRuleID string) (*domain.ItemRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return find(r.itemRules, func(ir domain.ItemRule) bool { return ir.ItemRuleID == itemRuleID }), nil
}

func (r *Repository) GetItemRuleByCreateTime(_ context.Context, createTime string) (*domain.ItemRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return find(r.itemRules, func(ir domain.ItemRule) bool { return ir.CreateTime == createTime }), nil
}

func (r *Repository) GetRule(_ context.Context, ruleID string) (*domain.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return find(r.rules, func(rule domain.Rule) bool { return rule.RuleID == ruleID }), nil
}

func (r *Repository) CreateFailure(_ context.Context, f domain.SystemFailure) (domain.SystemFailure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f.ID = uuid.New().String()
	r.failures = append(r.failures, f)
	return f, nil
}

func (r *Repository) GetFailures(_ context.Context) ([]domain.SystemFailure, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.failures), nil
}

func (r *Repository) CreateSystemLog(_ context.Context, l domain.SystemLog) (domain.SystemLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l.ID = uuid.New().String()
	r.systemLogs = append(r.systemLogs, l)
	return l, nil
}

func (r *Repository) GetSystemLogs(_ context.Context) ([]domain.SystemLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.systemLogs), nil
}

// find returns a copy of the first element matching fn.
func find[T any](items []T, fn func(T) bool) *T {
	for _, item := range items {
		if fn(item) {
			found := item
			return &found
		}
	}
	return nil
}
