package dto

type SecurityStatus struct {
	PinEnabled bool `json:"pinEnabled"`
	Locked     bool `json:"locked"`
}

type SetPinRequest struct {
	CurrentPin string `json:"currentPin"`
	Pin        string `json:"pin"`
}

type PinRequest struct {
	Pin string `json:"pin"`
}
