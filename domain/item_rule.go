package domain

type ItemRule struct {
	ID         string `json:"-" db:"id" bson:"_id,omitempty"`
	ItemRuleID string `json:"item_rule_id" db:"item_rule_id" bson:"item_rule_id"`
	RuleID     string `json:"rule_id" db:"rule_id" bson:"rule_id"`
	Content    string `json:"content" db:"content" bson:"content"`
	CreateTime string `json:"create_time" db:"create_time" bson:"create_time"`
}
