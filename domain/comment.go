package domain

// Comment is a rating submitted by a citizen for one item. CreateTime holds a
// millisecond timestamp as text.
type Comment struct {
	ID         string `json:"id" db:"id" bson:"_id,omitempty"`
	ItemID     string `json:"item_id" db:"item_id" bson:"item_id"`
	Score      int    `json:"score" db:"score" bson:"score"`
	CreateTime string `json:"create_time" db:"create_time" bson:"create_time"`
	IDC        string `json:"idc" db:"idc" bson:"idc"`
	Content    string `json:"content" db:"content" bson:"content"`
	Contact    string `json:"contact" db:"contact" bson:"contact"`
}

// CommentDetail is a Comment with its item data attached. A nil field means
// the related record could not be resolved.
type CommentDetail struct {
	Comment
	Rule      *Rule      `json:"rule"`
	ItemGuide *ItemGuide `json:"item_guide"`
	ItemRule  *ItemRule  `json:"item_rule"`
}
