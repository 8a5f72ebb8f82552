// Package models holds the client-side projections of server records.
// Field names follow the API's JSON; none of these are persisted locally.
package models

import (
	"encoding/json"
	"time"
)

// User is the authenticated account as returned by login and current-user.
type User struct {
	ID         string `json:"_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Fullname   string `json:"fullname,omitempty"`
	Avatar     string `json:"avatar"`
	CoverImage string `json:"coverimage"`
	Bio        string `json:"bio,omitempty"`
}

// Owner is the denormalised author reference embedded in content.
type Owner struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Video is the view model for a single upload.
type Video struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	VideoFile   string    `json:"videoFile"`
	Views       int       `json:"views"`
	Duration    float64   `json:"duration"`
	IsPublished bool      `json:"isPublished"`
	Owner       Owner     `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UnmarshalJSON accepts the owner either as "owner" or as the aggregated
// "ownerDetails" object some list endpoints return.
func (v *Video) UnmarshalJSON(data []byte) error {
	type alias Video
	aux := struct {
		*alias
		OwnerDetails *Owner `json:"ownerDetails"`
	}{alias: (*alias)(v)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if v.Owner.ID == "" && aux.OwnerDetails != nil {
		v.Owner = *aux.OwnerDetails
	}
	return nil
}

// Channel is a user's public channel as seen by the current viewer.
type Channel struct {
	ID                        string `json:"_id"`
	Username                  string `json:"username"`
	Fullname                  string `json:"fullname,omitempty"`
	Email                     string `json:"email"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverimage"`
	SubscribersCount          int    `json:"subscribersCount"`
	ChannelsSubscribedToCount int    `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

// Tweet is a short text post.
type Tweet struct {
	ID         string    `json:"_id"`
	Content    string    `json:"content"`
	Owner      Owner     `json:"owner"`
	LikesCount int       `json:"likesCount"`
	IsLiked    bool      `json:"isLiked"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Comment is attached to a video.
type Comment struct {
	ID         string    `json:"_id"`
	Content    string    `json:"content"`
	Owner      Owner     `json:"owner"`
	LikesCount int       `json:"likesCount"`
	IsLiked    bool      `json:"isLiked"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UnmarshalJSON accepts "ownerDetails" as a one-element array, which is how
// the comment aggregation pipeline shapes it.
func (c *Comment) UnmarshalJSON(data []byte) error {
	type alias Comment
	aux := struct {
		*alias
		OwnerDetails []Owner `json:"ownerDetails"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if c.Owner.ID == "" && len(aux.OwnerDetails) > 0 {
		c.Owner = aux.OwnerDetails[0]
	}
	return nil
}

// Playlist is an ordered, server-maintained list of videos.
type Playlist struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Videos      []Video   `json:"videos"`
	Owner       Owner     `json:"owner"`
	TotalViews  int       `json:"totalViews"`
	TotalVideos int       `json:"totalVideos"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Subscription links a subscriber to a channel.
type Subscription struct {
	ID         string     `json:"_id"`
	Subscriber string     `json:"subscriber"`
	Channel    ChannelRef `json:"channel"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// ChannelRef is the channel summary embedded in a subscription row.
type ChannelRef struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Email    string `json:"email"`
	Views    *int   `json:"views,omitempty"`
}

// ChannelStats are the dashboard aggregates for the current user.
type ChannelStats struct {
	TotalSubscribers int `json:"totalSubscribers"`
	TotalLikes       int `json:"totalLikes"`
	TotalViews       int `json:"totalViews"`
	TotalVideos      int `json:"totalVideos"`
}

// AuthResult is the payload of a successful login or token refresh.
type AuthResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user,omitempty"`
}
