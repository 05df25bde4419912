package domain

type Rule struct {
	ID       string `json:"-" db:"id" bson:"_id,omitempty"`
	RuleID   string `json:"rule_id" db:"rule_id" bson:"rule_id"`
	RuleName string `json:"rule_name" db:"rule_name" bson:"rule_name"`
}
