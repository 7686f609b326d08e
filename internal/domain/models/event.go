package model

import "encoding/json"

const PostsChannel = "posts"

type EventAction string

const (
	ActionCreate EventAction = "create"
	ActionUpdate EventAction = "update"
	ActionDelete EventAction = "delete"
)

// PostEvent is broadcast after a post mutation. Delete events carry only the id.
type PostEvent struct {
	Action EventAction
	Post   *Post
	PostID PostID
}

func (e PostEvent) MarshalJSON() ([]byte, error) {
	if e.Action == ActionDelete || e.Post == nil {
		return json.Marshal(struct {
			Action EventAction `json:"action"`
			Post   PostID      `json:"post"`
		}{e.Action, e.PostID})
	}
	return json.Marshal(struct {
		Action EventAction `json:"action"`
		Post   *Post       `json:"post"`
	}{e.Action, e.Post})
}

// Frame is the envelope every real-time listener receives.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func EncodeFrame(channel string, payload any) ([]byte, error) {
	return json.Marshal(Frame{Event: channel, Data: payload})
}
