package comment

import (
	"commentadmin/domain"
	"context"

	"golang.org/x/sync/errgroup"
)

// Resolution holds the records reachable from one item_id. Any field may be
// nil when the corresponding record does not exist.
type Resolution struct {
	Item      *domain.Item      `json:"item"`
	ItemGuide *domain.ItemGuide `json:"item_guide"`
	ItemRule  *domain.ItemRule  `json:"item_rule"`
	Rule      *domain.Rule      `json:"rule"`
}

func (s *Service) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	item, err := s.repository.GetItem(ctx, itemID)
	if err != nil {
		return nil, storageError("get_item", err)
	}
	return item, nil
}

func (s *Service) GetItemGuide(ctx context.Context, itemID string) (*domain.ItemGuide, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.itemGuideFor(ctx, item)
}

func (s *Service) GetItemRule(ctx context.Context, itemID string) (*domain.ItemRule, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.itemRuleFor(ctx, item)
}

func (s *Service) GetRule(ctx context.Context, itemID string) (*domain.Rule, error) {
	itemRule, err := s.GetItemRule(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.ruleFor(ctx, itemRule)
}

// Resolve looks up the item and everything attached to it, querying the item
// only once.
func (s *Service) Resolve(ctx context.Context, itemID string) (Resolution, error) {
	var res Resolution

	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return res, err
	}
	res.Item = item

	if res.ItemGuide, err = s.itemGuideFor(ctx, item); err != nil {
		return Resolution{}, err
	}
	if res.ItemRule, err = s.itemRuleFor(ctx, item); err != nil {
		return Resolution{}, err
	}
	if res.Rule, err = s.ruleFor(ctx, res.ItemRule); err != nil {
		return Resolution{}, err
	}

	return res, nil
}

func (s *Service) itemGuideFor(ctx context.Context, item *domain.Item) (*domain.ItemGuide, error) {
	if item == nil || item.ItemGuideID == "" {
		return nil, nil
	}

	guide, err := s.repository.GetItemGuide(ctx, item.ItemGuideID)
	if err != nil {
		return nil, storageError("get_item_guide", err)
	}
	return guide, nil
}

func (s *Service) itemRuleFor(ctx context.Context, item *domain.Item) (*domain.ItemRule, error) {
	if item == nil || item.ItemRuleID == "" {
		return nil, nil
	}

	var (
		itemRule *domain.ItemRule
		err      error
	)
	if s.legacyItemRuleJoin {
		itemRule, err = s.repository.GetItemRuleByCreateTime(ctx, item.ItemRuleID)
	} else {
		itemRule, err = s.repository.GetItemRule(ctx, item.ItemRuleID)
	}
	if err != nil {
		return nil, storageError("get_item_rule", err)
	}
	return itemRule, nil
}

func (s *Service) ruleFor(ctx context.Context, itemRule *domain.ItemRule) (*domain.Rule, error) {
	if itemRule == nil || itemRule.RuleID == "" {
		return nil, nil
	}

	rule, err := s.repository.GetRule(ctx, itemRule.RuleID)
	if err != nil {
		return nil, storageError("get_rule", err)
	}
	return rule, nil
}

func (s *Service) enrich(ctx context.Context, comment domain.Comment) (domain.CommentDetail, error) {
	res, err := s.Resolve(ctx, comment.ItemID)
	if err != nil {
		return domain.CommentDetail{}, err
	}

	return domain.CommentDetail{
		Comment:   comment,
		Rule:      res.Rule,
		ItemGuide: res.ItemGuide,
		ItemRule:  res.ItemRule,
	}, nil
}

// enrichAll enriches comments concurrently. The result keeps the input order
// and the first lookup failure aborts the whole batch.
func (s *Service) enrichAll(ctx context.Context, comments []domain.Comment) ([]domain.CommentDetail, error) {
	details := make([]domain.CommentDetail, len(comments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.enrichConcurrency)

	for i, c := range comments {
		g.Go(func() error {
			detail, err := s.enrich(gctx, c)
			if err != nil {
				return err
			}
			details[i] = detail
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return details, nil
}
