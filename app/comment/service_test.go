package comment_test

import (
	"commentadmin/app/comment"
	"commentadmin/domain"
	"commentadmin/infra/memory"
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func seedReferences(repo *memory.Repository) {
	repo.AddItem(
		domain.Item{ItemID: "A", ItemGuideID: "G1", ItemRuleID: "R1"},
		domain.Item{ItemID: "B", ItemGuideID: "G2", ItemRuleID: "R2"},
	)
	repo.AddItemGuide(
		domain.ItemGuide{ItemGuideID: "G1", ItemGuideName: "Graduate employment subsidy", ItemID: "A"},
		domain.ItemGuide{ItemGuideID: "G2", ItemGuideName: "Social security card reissue", ItemID: "B"},
	)
	repo.AddItemRule(
		domain.ItemRule{ItemRuleID: "R1", RuleID: "rule-1", Content: "apply online", CreateTime: "1632799167009"},
		domain.ItemRule{ItemRuleID: "R2", RuleID: "rule-2", Content: "apply at the counter", CreateTime: "1632799167010"},
	)
	repo.AddRule(
		domain.Rule{RuleID: "rule-1", RuleName: "Personal/Employment"},
		domain.Rule{RuleID: "rule-2", RuleName: "Personal/Social insurance"},
	)
}

func newService(t *testing.T, repo comment.Repository, comments ...domain.Comment) *comment.Service {
	t.Helper()

	service := comment.NewService(repo, comment.Options{EnrichConcurrency: 3})
	for _, c := range comments {
		_, err := service.SaveComment(context.Background(), c)
		require.NoError(t, err)
	}
	return service
}

func exampleComments() []domain.Comment {
	return []domain.Comment{
		{ItemID: "A", Score: 5, CreateTime: "100", IDC: "X1"},
		{ItemID: "B", Score: 3, CreateTime: "200", IDC: "Y1"},
	}
}

func numberedComments(n int) []domain.Comment {
	comments := make([]domain.Comment, n)
	for i := range comments {
		comments[i] = domain.Comment{
			ItemID:     "A",
			Score:      i%5 + 1,
			CreateTime: fmt.Sprint(1000 + i),
			Content:    fmt.Sprintf("comment-%02d", i),
		}
	}
	return comments
}

func contents(comments []domain.Comment) []string {
	out := make([]string, len(comments))
	for i, c := range comments {
		out[i] = c.Content
	}
	return out
}

func TestSaveComment(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	service := newService(t, repo)

	t.Run("returns the persisted record", func(t *testing.T) {
		saved, err := service.SaveComment(ctx, domain.Comment{ItemID: "A", Score: 4, CreateTime: "100", IDC: "X1"})
		require.NoError(t, err)

		assert.NotEmpty(t, saved.ID)
		assert.Equal(t, 4, saved.Score)

		all, err := service.ListAllComments(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.Comment{saved}, all)
	})

	t.Run("requires create_time", func(t *testing.T) {
		_, err := service.SaveComment(ctx, domain.Comment{ItemID: "A", Score: 4})

		var ve *comment.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "create_time", ve.Field)
	})

	t.Run("rejects unsearchable create_time", func(t *testing.T) {
		for _, createTime := range []string{"abc", "12.5", "-100", " 100"} {
			_, err := service.SaveComment(ctx, domain.Comment{ItemID: "A", Score: 4, CreateTime: createTime})

			var ve *comment.ValidationError
			require.ErrorAs(t, err, &ve, createTime)
			assert.Equal(t, "create_time", ve.Field)
		}
	})

	t.Run("rejects negative score", func(t *testing.T) {
		_, err := service.SaveComment(ctx, domain.Comment{ItemID: "A", Score: -1, CreateTime: "100"})

		var ve *comment.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "score", ve.Field)
	})

	t.Run("rejected comments are not stored", func(t *testing.T) {
		count, err := service.CountComments(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestListComments(t *testing.T) {
	ctx := context.Background()
	comments := numberedComments(25)
	service := newService(t, memory.NewRepository(), comments...)

	t.Run("page 0 returns everything", func(t *testing.T) {
		got, err := service.ListComments(ctx, 0, 0)
		require.NoError(t, err)
		assert.Len(t, got, 25)
	})

	// Page n skips (n-1)*10 and returns up to n*10, so pages grow and overlap.
	t.Run("page windows grow with the page number", func(t *testing.T) {
		page1, err := service.ListComments(ctx, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, contents(comments[:10]), contents(page1))

		page2, err := service.ListComments(ctx, 2, 0)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(page2), 20)
		assert.Equal(t, contents(comments[10:25]), contents(page2))

		page3, err := service.ListComments(ctx, 3, 0)
		require.NoError(t, err)
		assert.Equal(t, contents(comments[20:25]), contents(page3))

		page4, err := service.ListComments(ctx, 4, 0)
		require.NoError(t, err)
		assert.Empty(t, page4)
	})

	t.Run("score filters by exact match", func(t *testing.T) {
		got, err := service.ListComments(ctx, 0, 2)
		require.NoError(t, err)

		require.Len(t, got, 5)
		for _, c := range got {
			assert.Equal(t, 2, c.Score)
		}
	})

	t.Run("rejects negative input", func(t *testing.T) {
		_, err := service.ListComments(ctx, -1, 0)
		assert.True(t, comment.IsValidation(err))

		_, err = service.ListComments(ctx, 0, -3)
		assert.True(t, comment.IsValidation(err))
	})

	t.Run("page numbers past the int64 window are rejected", func(t *testing.T) {
		for _, pageNum := range []int{math.MaxInt, math.MaxInt/10 + 1, 922337203685477582} {
			var got []domain.Comment
			var err error
			require.NotPanics(t, func() {
				got, err = service.ListComments(ctx, pageNum, 0)
			})

			var ve *comment.ValidationError
			require.ErrorAs(t, err, &ve, pageNum)
			assert.Equal(t, "pageNum", ve.Field)
			assert.Nil(t, got)
		}
	})

	t.Run("largest page number is empty", func(t *testing.T) {
		got, err := service.ListComments(ctx, math.MaxInt64/10, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestGetCommentParam(t *testing.T) {
	ctx := context.Background()

	t.Run("groups by score and averages", func(t *testing.T) {
		service := newService(t, memory.NewRepository(),
			domain.Comment{Score: 5, CreateTime: "1"},
			domain.Comment{Score: 3, CreateTime: "2"},
			domain.Comment{Score: 5, CreateTime: "3"},
			domain.Comment{Score: 1, CreateTime: "4"},
		)

		param, err := service.GetCommentParam(ctx)
		require.NoError(t, err)

		assert.Equal(t, []domain.ScoreCount{
			{Score: 1, Count: 1},
			{Score: 3, Count: 1},
			{Score: 5, Count: 2},
		}, param.ScoreInfo)
		assert.Equal(t, 4, param.TotalNum)
		assert.InDelta(t, 3.5, param.AvgScore, 1e-9)

		sum := 0
		for _, g := range param.ScoreInfo {
			sum += g.Count
		}
		assert.Equal(t, param.TotalNum, sum)
	})

	t.Run("no comments reports zero", func(t *testing.T) {
		service := newService(t, memory.NewRepository())

		param, err := service.GetCommentParam(ctx)
		require.NoError(t, err)

		assert.Equal(t, 0, param.TotalNum)
		assert.Zero(t, param.AvgScore)
		assert.NotNil(t, param.ScoreInfo)
		assert.Empty(t, param.ScoreInfo)
	})
}

func TestGetCommentDetail(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	seedReferences(repo)

	comments := append(exampleComments(), domain.Comment{ItemID: "missing", Score: 1, CreateTime: "300", IDC: "Z1"})
	service := newService(t, repo, comments...)

	details, err := service.GetCommentDetail(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, details, 3)

	t.Run("attaches guide and rules", func(t *testing.T) {
		first := details[0]
		assert.Equal(t, "X1", first.IDC)
		require.NotNil(t, first.ItemGuide)
		assert.Equal(t, "G1", first.ItemGuide.ItemGuideID)
		require.NotNil(t, first.ItemRule)
		assert.Equal(t, "R1", first.ItemRule.ItemRuleID)
		require.NotNil(t, first.Rule)
		assert.Equal(t, "Personal/Employment", first.Rule.RuleName)

		second := details[1]
		require.NotNil(t, second.ItemGuide)
		assert.Equal(t, "G2", second.ItemGuide.ItemGuideID)
		require.NotNil(t, second.Rule)
		assert.Equal(t, "rule-2", second.Rule.RuleID)
	})

	t.Run("unknown item leaves placeholders", func(t *testing.T) {
		orphan := details[2]
		assert.Equal(t, "Z1", orphan.IDC)
		assert.Nil(t, orphan.ItemGuide)
		assert.Nil(t, orphan.ItemRule)
		assert.Nil(t, orphan.Rule)
	})

	t.Run("enrichment is idempotent", func(t *testing.T) {
		again, err := service.GetCommentDetail(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, details, again)
	})
}

func TestGetCommentDetailKeepsOrder(t *testing.T) {
	repo := memory.NewRepository()
	seedReferences(repo)

	comments := numberedComments(40)
	service := newService(t, repo, comments...)

	details, err := service.GetCommentDetail(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, details, 40)

	for i, d := range details {
		assert.Equal(t, comments[i].Content, d.Content)
		assert.NotNil(t, d.ItemGuide)
	}
}

func TestLookups(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	seedReferences(repo)
	service := newService(t, repo)

	item, err := service.GetItem(ctx, "A")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "G1", item.ItemGuideID)

	guide, err := service.GetItemGuide(ctx, "B")
	require.NoError(t, err)
	require.NotNil(t, guide)
	assert.Equal(t, "Social security card reissue", guide.ItemGuideName)

	itemRule, err := service.GetItemRule(ctx, "A")
	require.NoError(t, err)
	require.NotNil(t, itemRule)
	assert.Equal(t, "rule-1", itemRule.RuleID)

	rule, err := service.GetRule(ctx, "B")
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.Equal(t, "Personal/Social insurance", rule.RuleName)

	t.Run("absent records are nil", func(t *testing.T) {
		item, err := service.GetItem(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, item)

		guide, err := service.GetItemGuide(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, guide)

		rule, err := service.GetRule(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, rule)
	})
}

func TestLegacyItemRuleJoin(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	seedReferences(repo)
	// Old items reference the rule by its creation timestamp.
	repo.AddItem(domain.Item{ItemID: "C", ItemGuideID: "G1", ItemRuleID: "1632799167010"})

	legacy := comment.NewService(repo, comment.Options{LegacyItemRuleJoin: true})
	current := comment.NewService(repo, comment.Options{})

	itemRule, err := legacy.GetItemRule(ctx, "C")
	require.NoError(t, err)
	require.NotNil(t, itemRule)
	assert.Equal(t, "R2", itemRule.ItemRuleID)

	itemRule, err = current.GetItemRule(ctx, "C")
	require.NoError(t, err)
	assert.Nil(t, itemRule)
}

type failingRepository struct {
	comment.Repository
	err error
}

func (r failingRepository) GetItemGuide(context.Context, string) (*domain.ItemGuide, error) {
	return nil, r.err
}

func TestStorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	seedReferences(repo)

	boom := errors.New("connection reset")
	service := newService(t, failingRepository{Repository: repo, err: boom}, numberedComments(12)...)

	_, err := service.GetCommentDetail(ctx, 0, 0)
	require.Error(t, err)

	var se *comment.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "get_item_guide", se.Op)
	assert.ErrorIs(t, err, boom)
	assert.False(t, comment.IsValidation(err))

	_, err = service.SearchByCondition(ctx, comment.SearchCondition{})
	assert.ErrorIs(t, err, boom)
}
