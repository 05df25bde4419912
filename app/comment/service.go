package comment

import (
	"cmp"
	"commentadmin/domain"
	"context"
	"math"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	pageSize                 = 10
	defaultEnrichConcurrency = 8

	// maxPageNum keeps pageNum*pageSize within int64.
	maxPageNum = math.MaxInt64 / pageSize
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Options struct {
	// EnrichConcurrency bounds how many comments are enriched at once.
	EnrichConcurrency int
	// LegacyItemRuleJoin matches item rules on their create_time instead of
	// item_rule_id. Old data sets stored the rule creation timestamp in
	// item.item_rule_id.
	LegacyItemRuleJoin bool
}

type Service struct {
	repository         Repository
	enrichConcurrency  int
	legacyItemRuleJoin bool
}

func NewService(repository Repository, opts Options) *Service {
	concurrency := opts.EnrichConcurrency
	if concurrency < 1 {
		concurrency = defaultEnrichConcurrency
	}

	if opts.LegacyItemRuleJoin {
		zap.L().Warn("Item rules are joined on create_time (legacy mode)")
	}

	return &Service{
		repository:         repository,
		enrichConcurrency:  concurrency,
		legacyItemRuleJoin: opts.LegacyItemRuleJoin,
	}
}

// SaveComment stores the comment as given and returns the persisted record.
// create_time must be a millisecond timestamp so the comment stays searchable.
func (s *Service) SaveComment(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	if comment.CreateTime == "" {
		return domain.Comment{}, &ValidationError{Field: "create_time", Reason: "is required"}
	}
	if err := validate.Var(comment.CreateTime, "number"); err != nil {
		return domain.Comment{}, &ValidationError{Field: "create_time", Reason: "must be a millisecond timestamp"}
	}
	if comment.Score < 0 {
		return domain.Comment{}, &ValidationError{Field: "score", Reason: "must not be negative"}
	}

	saved, err := s.repository.CreateComment(ctx, comment)
	if err != nil {
		return domain.Comment{}, storageError("create_comment", err)
	}

	return saved, nil
}

// ListComments returns comments with the given score (0 for any). Page 0
// returns everything. Page n skips (n-1)*10 records and returns up to n*10,
// so later pages are larger and overlap the previous ones. Existing admin
// clients page through results this way.
func (s *Service) ListComments(ctx context.Context, pageNum, score int) ([]domain.Comment, error) {
	if pageNum < 0 {
		return nil, &ValidationError{Field: "pageNum", Reason: "must not be negative"}
	}
	if int64(pageNum) > maxPageNum {
		return nil, &ValidationError{Field: "pageNum", Reason: "is too large"}
	}
	if score < 0 {
		return nil, &ValidationError{Field: "score", Reason: "must not be negative"}
	}

	skip, limit := pageWindow(pageNum)

	comments, err := s.repository.FindComments(ctx, CommentFilter{
		Score: score,
		Skip:  skip,
		Limit: limit,
	})
	if err != nil {
		return nil, storageError("find_comments", err)
	}

	return comments, nil
}

// ListAllComments returns every stored comment without enrichment.
func (s *Service) ListAllComments(ctx context.Context) ([]domain.Comment, error) {
	return s.ListComments(ctx, 0, 0)
}

func (s *Service) CountComments(ctx context.Context, score int) (int, error) {
	count, err := s.repository.CountComments(ctx, score)
	if err != nil {
		return 0, storageError("count_comments", err)
	}
	return count, nil
}

func pageWindow(pageNum int) (skip, limit int64) {
	if pageNum == 0 {
		return 0, 0
	}
	return int64(pageNum-1) * pageSize, int64(pageNum) * pageSize
}

// GetCommentParam reports how many comments exist per score together with the
// total and the mean score. The mean is 0 when there are no comments.
func (s *Service) GetCommentParam(ctx context.Context) (domain.CommentParam, error) {
	groups, err := s.repository.CountCommentsByScore(ctx)
	if err != nil {
		return domain.CommentParam{}, storageError("count_comments_by_score", err)
	}

	slices.SortFunc(groups, func(a, b domain.ScoreCount) int {
		return cmp.Compare(a.Score, b.Score)
	})

	total := 0
	weighted := decimal.Zero
	for _, g := range groups {
		total += g.Count
		weighted = weighted.Add(decimal.NewFromInt(int64(g.Score)).Mul(decimal.NewFromInt(int64(g.Count))))
	}

	avg := 0.0
	if total > 0 {
		avg = weighted.Div(decimal.NewFromInt(int64(total))).InexactFloat64()
	}

	if groups == nil {
		groups = []domain.ScoreCount{}
	}

	return domain.CommentParam{
		TotalNum:  total,
		AvgScore:  avg,
		ScoreInfo: groups,
	}, nil
}

// GetCommentDetail returns a page of comments (see ListComments) with each
// comment's rule, item guide and item rule attached.
func (s *Service) GetCommentDetail(ctx context.Context, pageNum, score int) ([]domain.CommentDetail, error) {
	comments, err := s.ListComments(ctx, pageNum, score)
	if err != nil {
		return nil, err
	}

	return s.enrichAll(ctx, comments)
}
