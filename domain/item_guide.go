package domain

type ItemGuide struct {
	ID               string `json:"-" db:"id" bson:"_id,omitempty"`
	ItemGuideID      string `json:"item_guide_id" db:"item_guide_id" bson:"item_guide_id"`
	ItemGuideName    string `json:"item_guide_name" db:"item_guide_name" bson:"item_guide_name"`
	ItemGuideContent string `json:"item_guide_content" db:"item_guide_content" bson:"item_guide_content"`
	ItemID           string `json:"item_id" db:"item_id" bson:"item_id"`
}
