package domain

// SystemLog records one operation performed in the admin console. LogTime
// holds a millisecond timestamp as text.
type SystemLog struct {
	ID        string `json:"id" db:"id" bson:"_id,omitempty"`
	Operator  string `json:"operator,omitempty" db:"operator" bson:"operator"`
	Operation string `json:"operation" db:"operation" bson:"operation"`
	LogTime   string `json:"log_time" db:"log_time" bson:"log_time"`
	IDC       string `json:"idc" db:"idc" bson:"idc"`
}
