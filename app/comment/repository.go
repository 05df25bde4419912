package comment

import (
	"commentadmin/domain"
	"context"
)

// CommentFilter selects comments for FindComments. Score 0 matches every
// score and Limit 0 disables the limit.
type CommentFilter struct {
	Score int
	Skip  int64
	Limit int64
}

// Repository is the document store seen by the comment service. Single record
// lookups return nil without an error when nothing matches.
type Repository interface {
	CreateComment(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	FindComments(ctx context.Context, filter CommentFilter) ([]domain.Comment, error)
	CountComments(ctx context.Context, score int) (int, error)
	CountCommentsByScore(ctx context.Context) ([]domain.ScoreCount, error)
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
	GetItemGuide(ctx context.Context, itemGuideID string) (*domain.ItemGuide, error)
	GetItemRule(ctx context.Context, itemRuleID string) (*domain.ItemRule, error)
	GetItemRuleByCreateTime(ctx context.Context, createTime string) (*domain.ItemRule, error)
	GetRule(ctx context.Context, ruleID string) (*domain.Rule, error)
}
