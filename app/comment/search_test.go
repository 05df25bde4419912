package comment_test

import (
	"commentadmin/app/comment"
	"commentadmin/domain"
	"commentadmin/infra/memory"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idcs(details []domain.CommentDetail) []string {
	out := make([]string, len(details))
	for i, d := range details {
		out[i] = d.IDC
	}
	return out
}

func TestSearchByCondition(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	seedReferences(repo)

	comments := append(exampleComments(),
		domain.Comment{ItemID: "missing", Score: 3, CreateTime: "250", IDC: "Y2"},
	)
	service := newService(t, repo, comments...)

	// Rows written before create_time was validated.
	_, err := repo.CreateComment(ctx, domain.Comment{ItemID: "A", Score: 3, CreateTime: "not-a-time", IDC: "Y3"})
	require.NoError(t, err)

	tests := []struct {
		name string
		cond comment.SearchCondition
		want []string
	}{
		{
			name: "start time and idc",
			cond: comment.SearchCondition{StartTime: 150, Type: comment.SearchByIDC, TypeData: "Y"},
			want: []string{"Y1", "Y2"},
		},
		{
			name: "empty type data ignores type",
			cond: comment.SearchCondition{Type: comment.SearchByIDC},
			want: []string{"X1", "Y1", "Y2"},
		},
		{
			name: "bounded range is inclusive",
			cond: comment.SearchCondition{StartTime: 100, EndTime: 200},
			want: []string{"X1", "Y1"},
		},
		{
			name: "score narrows before filtering",
			cond: comment.SearchCondition{Score: 5},
			want: []string{"X1"},
		},
		{
			name: "guide name",
			cond: comment.SearchCondition{Type: comment.SearchByItemGuideName, TypeData: "Social security"},
			want: []string{"Y1"},
		},
		{
			name: "guide id",
			cond: comment.SearchCondition{Type: comment.SearchByItemGuideID, TypeData: "G1"},
			want: []string{"X1"},
		},
		{
			name: "rule name",
			cond: comment.SearchCondition{Type: comment.SearchByRuleName, TypeData: "Employment"},
			want: []string{"X1"},
		},
		{
			name: "unknown type matches everything",
			cond: comment.SearchCondition{Type: comment.SearchType(9), TypeData: "zzz"},
			want: []string{"X1", "Y1", "Y2"},
		},
		{
			name: "no match",
			cond: comment.SearchCondition{Type: comment.SearchByIDC, TypeData: "Q"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.SearchByCondition(ctx, tt.cond)
			require.NoError(t, err)
			assert.Equal(t, tt.want, idcs(got))
		})
	}
}

func TestSearchExample(t *testing.T) {
	repo := memory.NewRepository()
	seedReferences(repo)
	service := newService(t, repo, exampleComments()...)

	got, err := service.SearchByCondition(context.Background(), comment.SearchCondition{
		StartTime: 150,
		EndTime:   0,
		Type:      comment.SearchByIDC,
		TypeData:  "Y",
	})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].ItemID)
	require.NotNil(t, got[0].ItemGuide)
	assert.Equal(t, "G2", got[0].ItemGuide.ItemGuideID)
}

func TestSearchRejectsNegativeBounds(t *testing.T) {
	service := newService(t, memory.NewRepository())
	ctx := context.Background()

	for _, cond := range []comment.SearchCondition{
		{StartTime: -1},
		{EndTime: -1},
		{Score: -1},
	} {
		_, err := service.SearchByCondition(ctx, cond)
		assert.True(t, comment.IsValidation(err), "%+v", cond)
	}
}
