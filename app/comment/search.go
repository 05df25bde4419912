package comment

import (
	"commentadmin/domain"
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// SearchType selects which field TypeData is matched against.
type SearchType int

const (
	SearchAny SearchType = iota
	SearchByIDC
	SearchByItemGuideName
	SearchByItemGuideID
	SearchByRuleName
)

// SearchCondition narrows the enriched comment set. EndTime 0 leaves the time
// range open ended. An empty TypeData disables the Type filter.
type SearchCondition struct {
	StartTime int64
	EndTime   int64
	Score     int
	Type      SearchType
	TypeData  string
}

func (c SearchCondition) validate() error {
	if c.StartTime < 0 {
		return &ValidationError{Field: "startTime", Reason: "must not be negative"}
	}
	if c.EndTime < 0 {
		return &ValidationError{Field: "endTime", Reason: "must not be negative"}
	}
	if c.Score < 0 {
		return &ValidationError{Field: "score", Reason: "must not be negative"}
	}
	return nil
}

// SearchByCondition enriches every comment with the requested score and keeps
// the ones inside the time range whose selected field contains TypeData.
// Comments whose create_time is not an integer never match a time range.
func (s *Service) SearchByCondition(ctx context.Context, cond SearchCondition) ([]domain.CommentDetail, error) {
	if err := cond.validate(); err != nil {
		return nil, err
	}

	details, err := s.GetCommentDetail(ctx, 0, cond.Score)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.CommentDetail, 0, len(details))
	for _, d := range details {
		if !inTimeRange(d.Comment, cond.StartTime, cond.EndTime) {
			continue
		}
		if cond.TypeData != "" && !matchesType(d, cond.Type, cond.TypeData) {
			continue
		}
		filtered = append(filtered, d)
	}

	return filtered, nil
}

func inTimeRange(c domain.Comment, start, end int64) bool {
	created, err := strconv.ParseInt(strings.TrimSpace(c.CreateTime), 10, 64)
	if err != nil {
		zap.L().Debug("Skipping comment with malformed create_time",
			zap.String("commentId", c.ID),
			zap.String("createTime", c.CreateTime),
		)
		return false
	}

	if created < start {
		return false
	}
	return end == 0 || created <= end
}

// matchesType reports whether the field picked by t contains data. Unknown
// types match everything, a missing guide or rule matches nothing.
func matchesType(d domain.CommentDetail, t SearchType, data string) bool {
	switch t {
	case SearchByIDC:
		return strings.Contains(d.IDC, data)
	case SearchByItemGuideName:
		return d.ItemGuide != nil && strings.Contains(d.ItemGuide.ItemGuideName, data)
	case SearchByItemGuideID:
		return d.ItemGuide != nil && strings.Contains(d.ItemGuide.ItemGuideID, data)
	case SearchByRuleName:
		return d.Rule != nil && strings.Contains(d.Rule.RuleName, data)
	default:
		return true
	}
}
