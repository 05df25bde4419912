package domain

type SystemFailure struct {
	ID             string  `json:"id" db:"id" bson:"_id,omitempty"`
	FailureName    string  `json:"failure_name" db:"failure_name" bson:"failure_name"`
	FailureDes     string  `json:"failure_des" db:"failure_des" bson:"failure_des"`
	FailureTime    string  `json:"failure_time" db:"failure_time" bson:"failure_time"`
	IDC            string  `json:"idc" db:"idc" bson:"idc"`
	FailurePicture *string `json:"failure_picture" db:"failure_picture" bson:"failure_picture,omitempty"`
}
