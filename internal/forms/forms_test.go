package forms

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"
)

func TestRegistrationValidate(t *testing.T) {
	avatar := &File{Name: "me.png", Size: 3, Content: strings.NewReader("png")}
	base := Registration{
		Username:        "ana",
		Fullname:        "Ana Lima",
		Email:           "ana@example.com",
		Password:        "secret",
		ConfirmPassword: "secret",
		Avatar:          avatar,
	}

	cases := []struct {
		name   string
		mutate func(r *Registration)
		want   error
	}{
		{"valid", func(*Registration) {}, nil},
		{"mismatch", func(r *Registration) { r.ConfirmPassword = "other" }, ErrPasswordMismatch},
		{"missingAvatar", func(r *Registration) { r.Avatar = nil }, ErrAvatarRequired},
		{"mismatchWins", func(r *Registration) { r.ConfirmPassword = "x"; r.Avatar = nil }, ErrPasswordMismatch},
		{"missingEmail", func(r *Registration) { r.Email = " " }, ErrFieldRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := base
			tc.mutate(&r)
			err := r.Validate()
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v got %v", tc.want, err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError got %T", err)
			}
		})
	}
}

func TestPasswordChangeValidate(t *testing.T) {
	if err := (PasswordChange{OldPassword: "a", NewPassword: "b", ConfirmPassword: "c"}).Validate(); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected mismatch got %v", err)
	}
	if err := (PasswordChange{NewPassword: "b", ConfirmPassword: "b"}).Validate(); !errors.Is(err, ErrFieldRequired) {
		t.Fatalf("expected required got %v", err)
	}
	if err := (PasswordChange{OldPassword: "a", NewPassword: "b", ConfirmPassword: "b"}).Validate(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestVideoUploadRequiresBothFiles(t *testing.T) {
	up := VideoUpload{Title: "t", Description: "d", Video: &File{Name: "a.mp4"}}
	if err := up.Validate(); !errors.Is(err, ErrMediaRequired) {
		t.Fatalf("expected media required got %v", err)
	}
	up.Thumbnail = &File{Name: "a.jpg"}
	if err := up.Validate(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestTweetDraftLength(t *testing.T) {
	if err := (TweetDraft{Content: "   "}).Validate(); !errors.Is(err, ErrContentRequired) {
		t.Fatalf("expected content required got %v", err)
	}
	long := strings.Repeat("é", MaxTweetLength)
	if err := (TweetDraft{Content: long}).Validate(); err != nil {
		t.Fatalf("280 characters must be accepted: %v", err)
	}
	if err := (TweetDraft{Content: long + "!"}).Validate(); !errors.Is(err, ErrContentTooLong) {
		t.Fatalf("expected too long got %v", err)
	}
	if got := (TweetDraft{Content: "hello"}).Remaining(); got != 275 {
		t.Fatalf("expected 275 remaining got %d", got)
	}
}

func TestMultipartEncode(t *testing.T) {
	var calls []int64
	m := VideoUpload{
		Title:       "Trip",
		Description: "Lisbon",
		Video:       &File{Name: "clips/trip.mp4", Size: 5, Content: strings.NewReader("vvvvv")},
		Thumbnail:   &File{Name: "trip.jpg", Size: 2, Content: strings.NewReader("jj")},
	}.Multipart()
	m.OnProgress = func(sent, total int64) {
		if total != 7 {
			t.Errorf("expected total 7 got %d", total)
		}
		calls = append(calls, sent)
	}

	body, contentType := m.Encode()
	defer body.Close()

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("unexpected content type %q: %v", contentType, err)
	}

	reader := multipart.NewReader(body, params["boundary"])
	var names []string
	values := map[string]string{}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		data, _ := io.ReadAll(part)
		names = append(names, part.FormName())
		values[part.FormName()] = string(data)
		if part.FormName() == "videoFile" && part.FileName() != "trip.mp4" {
			t.Fatalf("expected base filename got %q", part.FileName())
		}
	}

	want := []string{"title", "description", "videoFile", "thumbnail"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected part order %v", names)
	}
	if values["title"] != "Trip" || values["videoFile"] != "vvvvv" || values["thumbnail"] != "jj" {
		t.Fatalf("unexpected values %v", values)
	}
	if len(calls) == 0 || calls[len(calls)-1] != 7 {
		t.Fatalf("expected progress to reach 7 got %v", calls)
	}
}

func TestSingleFileRequiresContent(t *testing.T) {
	if _, err := SingleFile("avatar", File{Name: "x.png"}); !errors.Is(err, ErrFieldRequired) {
		t.Fatalf("expected required got %v", err)
	}
	m, err := SingleFile("avatar", File{Name: "x.png", Size: 1, Content: strings.NewReader("x")})
	if err != nil {
		t.Fatalf("single file: %v", err)
	}
	if got := m.FieldNames(); len(got) != 1 || got[0] != "avatar" {
		t.Fatalf("unexpected fields %v", got)
	}
}

func TestCommentDraftHasNoCap(t *testing.T) {
	if err := (CommentDraft{Content: strings.Repeat("a", 1000)}).Validate(); err != nil {
		t.Fatalf("long comments are allowed: %v", err)
	}
	if err := (CommentDraft{}).Validate(); !errors.Is(err, ErrContentRequired) {
		t.Fatalf("expected content required got %v", err)
	}
}
