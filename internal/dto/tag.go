package dto

import "github.com/GregMSThompson/pocket-ledger/internal/models"

type UpdateTagRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type RenameTagResult struct {
	Tag                 models.Tag `json:"tag"`
	UpdatedTransactions int        `json:"updatedTransactions"`
}

type TagResolution struct {
	Match       *models.Tag `json:"match,omitempty"`
	Suggestions []string    `json:"suggestions,omitempty"`
}
