package domain

type ScoreCount struct {
	Score int `json:"score" db:"score" bson:"_id"`
	Count int `json:"count" db:"count" bson:"count"`
}

type CommentParam struct {
	TotalNum  int          `json:"totalNum"`
	AvgScore  float64      `json:"avgScore"`
	ScoreInfo []ScoreCount `json:"scoreInfo"`
}
