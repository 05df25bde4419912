package domain

type Item struct {
	ID          string `json:"-" db:"id" bson:"_id,omitempty"`
	ItemID      string `json:"item_id" db:"item_id" bson:"item_id"`
	ReleaseTime string `json:"release_time" db:"release_time" bson:"release_time"`
	ItemStatus  int    `json:"item_status" db:"item_status" bson:"item_status"`
	CreateTime  string `json:"create_time" db:"create_time" bson:"create_time"`
	ItemGuideID string `json:"item_guide_id" db:"item_guide_id" bson:"item_guide_id"`
	ItemRuleID  string `json:"item_rule_id" db:"item_rule_id" bson:"item_rule_id"`
}
