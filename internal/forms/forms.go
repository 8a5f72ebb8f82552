// Package forms holds the client-side checks run before a form is
// submitted, and builds the request bodies those forms turn into.
package forms

import (
	"strings"
	"unicode/utf8"
)

// MaxTweetLength bounds a tweet's content, counted in characters.
const MaxTweetLength = 280

// Registration is the signup form.
type Registration struct {
	Username        string
	Fullname        string
	Email           string
	Password        string
	ConfirmPassword string
	Avatar          *File
	CoverImage      *File
}

// Validate checks password confirmation before the avatar, matching the
// order users see the messages in.
func (r Registration) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"username", r.Username},
		{"email", r.Email},
		{"password", r.Password},
	} {
		if strings.TrimSpace(f.value) == "" {
			return invalid(f.name, ErrFieldRequired)
		}
	}
	if r.Password != r.ConfirmPassword {
		return invalid("confirmPassword", ErrPasswordMismatch)
	}
	if r.Avatar == nil {
		return invalid("avatar", ErrAvatarRequired)
	}
	return nil
}

// Multipart builds the register body. The confirmation never leaves the client.
func (r Registration) Multipart() *Multipart {
	m := NewMultipart().
		AddField("username", r.Username).
		AddField("fullname", r.Fullname).
		AddField("email", r.Email).
		AddField("password", r.Password)
	if r.Avatar != nil {
		m.AddFile("avatar", *r.Avatar)
	}
	if r.CoverImage != nil {
		m.AddFile("coverimage", *r.CoverImage)
	}
	return m
}

// PasswordChange is the change-password form. All three fields travel to
// the server, which repeats the confirmation check.
type PasswordChange struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (p PasswordChange) Validate() error {
	switch {
	case p.OldPassword == "":
		return invalid("oldPassword", ErrFieldRequired)
	case p.NewPassword == "":
		return invalid("newPassword", ErrFieldRequired)
	case p.ConfirmPassword == "":
		return invalid("confirmPassword", ErrFieldRequired)
	case p.NewPassword != p.ConfirmPassword:
		return invalid("confirmPassword", ErrPasswordMismatch)
	}
	return nil
}

// AccountUpdate is a partial profile patch; empty fields are omitted.
type AccountUpdate struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Fullname string `json:"fullname,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

func (a AccountUpdate) Validate() error {
	if a == (AccountUpdate{}) {
		return invalid("", ErrFieldRequired)
	}
	return nil
}

// VideoUpload is the publish form. Every field is required.
type VideoUpload struct {
	Title       string
	Description string
	Video       *File
	Thumbnail   *File
}

func (v VideoUpload) Validate() error {
	if v.Video == nil || v.Thumbnail == nil {
		return invalid("", ErrMediaRequired)
	}
	if strings.TrimSpace(v.Title) == "" {
		return invalid("title", ErrFieldRequired)
	}
	if strings.TrimSpace(v.Description) == "" {
		return invalid("description", ErrFieldRequired)
	}
	return nil
}

func (v VideoUpload) Multipart() *Multipart {
	m := NewMultipart().
		AddField("title", v.Title).
		AddField("description", v.Description)
	if v.Video != nil {
		m.AddFile("videoFile", *v.Video)
	}
	if v.Thumbnail != nil {
		m.AddFile("thumbnail", *v.Thumbnail)
	}
	return m
}

// VideoEdit patches an existing video; the thumbnail is optional.
type VideoEdit struct {
	Title       string
	Description string
	Thumbnail   *File
}

func (v VideoEdit) Validate() error {
	if strings.TrimSpace(v.Title) == "" {
		return invalid("title", ErrFieldRequired)
	}
	return nil
}

func (v VideoEdit) Multipart() *Multipart {
	m := NewMultipart().
		AddField("title", v.Title).
		AddField("description", v.Description)
	if v.Thumbnail != nil {
		m.AddFile("thumbnail", *v.Thumbnail)
	}
	return m
}

// TweetDraft is the text of a new or edited tweet.
type TweetDraft struct {
	Content string
}

func (t TweetDraft) Validate() error {
	if strings.TrimSpace(t.Content) == "" {
		return invalid("content", ErrContentRequired)
	}
	if utf8.RuneCountInString(t.Content) > MaxTweetLength {
		return invalid("content", ErrContentTooLong)
	}
	return nil
}

// Remaining is the character budget left, as shown beside the input.
func (t TweetDraft) Remaining() int {
	return MaxTweetLength - utf8.RuneCountInString(t.Content)
}

// SingleFile builds the body for avatar and cover image updates.
func SingleFile(field string, f File) (*Multipart, error) {
	if f.Content == nil {
		return nil, invalid(field, ErrFieldRequired)
	}
	return NewMultipart().AddFile(field, f), nil
}

// CommentDraft is the text of a comment. Unlike tweets it is not capped.
type CommentDraft struct {
	Content string
}

func (c CommentDraft) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return invalid("content", ErrContentRequired)
	}
	return nil
}
