package dto

type ProcessRequest struct {
	Bucket string `json:"bucket" binding:"required"`
	Key    string `json:"key" binding:"required"`
}

type RebuildFeedRequest struct {
	Bucket string `json:"bucket"`
}

type RebuildFeedResponse struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Items  int    `json:"items"`
}
