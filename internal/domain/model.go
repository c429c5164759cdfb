package domain

type ShareReq struct {
	Text string `json:"text" validate:"required,notblank"`
}

type ShareRes struct {
	Code string `json:"code"`
}

type GetRes struct {
	Text string `json:"text"`
}
