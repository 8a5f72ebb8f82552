package app

import (
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/vidfriends/client/internal/models"
	"github.com/vidfriends/client/internal/views"
)

// table writes aligned columns and flushes on done.
type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer, header ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}
	t.row(header...)
	return t
}

func (t *table) row(cols ...string) {
	_, _ = io.WriteString(t.tw, strings.Join(cols, "\t")+"\n")
}

func (t *table) done() {
	_ = t.tw.Flush()
}

func renderVideos(w io.Writer, videos []models.Video, now time.Time) {
	if len(videos) == 0 {
		printf(w, "no videos\n")
		return
	}
	t := newTable(w, "ID", "TITLE", "CHANNEL", "VIEWS", "LENGTH", "UPLOADED")
	for _, v := range videos {
		t.row(v.ID, v.Title, v.Owner.Username, views.FormatViews(v.Views), views.FormatDuration(v.Duration), views.FormatAge(v.CreatedAt, now))
	}
	t.done()
}

func renderDashboardVideos(w io.Writer, videos []models.Video, now time.Time) {
	if len(videos) == 0 {
		printf(w, "no videos\n")
		return
	}
	t := newTable(w, "ID", "TITLE", "STATUS", "VIEWS", "UPLOADED")
	for _, v := range videos {
		t.row(v.ID, v.Title, publishState(v.IsPublished), views.FormatViews(v.Views), views.FormatAge(v.CreatedAt, now))
	}
	t.done()
}

func publishState(published bool) string {
	if published {
		return "published"
	}
	return "draft"
}

func renderVideo(w io.Writer, v models.Video, now time.Time) {
	printf(w, "%s\n", v.Title)
	printf(w, "%s · %s views · %s · %s\n", v.Owner.Username, views.FormatViews(v.Views), views.FormatDuration(v.Duration), views.FormatAge(v.CreatedAt, now))
	if v.VideoFile != "" {
		printf(w, "%s\n", v.VideoFile)
	}
	if v.Description != "" {
		printf(w, "\n%s\n", v.Description)
	}
}

func renderLike(w io.Writer, s views.LikeState) {
	mark := "not liked"
	if s.Liked {
		mark = "liked"
	}
	printf(w, "%s (%d likes)\n", mark, s.Count)
}

func renderSubscription(w io.Writer, s views.SubscriptionState) {
	printf(w, "%s (%d subscribers)\n", subscriptionFlag(s.Subscribed), s.Subscribers)
}

func subscriptionFlag(subscribed bool) string {
	if subscribed {
		return "subscribed"
	}
	return "not subscribed"
}

func renderComments(w io.Writer, comments []views.CommentItem, now time.Time) {
	printf(w, "\n%d comments\n", len(comments))
	for _, c := range comments {
		printf(w, "  [%s] %s, %s, %d likes\n    %s\n", c.Comment.ID, c.Comment.Owner.Username, views.FormatAge(c.Comment.CreatedAt, now), c.Like.Count, c.Comment.Content)
	}
}

func renderTweets(w io.Writer, tweets []views.TweetItem, now time.Time) {
	if len(tweets) == 0 {
		printf(w, "no tweets\n")
		return
	}
	for _, item := range tweets {
		tw := item.Tweet
		edited := ""
		if views.IsEdited(tw.CreatedAt, tw.UpdatedAt) {
			edited = " (edited)"
		}
		liked := ""
		if item.Like.Liked {
			liked = ", liked"
		}
		printf(w, "[%s] %s%s, %d likes%s\n  %s\n", tw.ID, views.FormatAge(tw.CreatedAt, now), edited, item.Like.Count, liked, tw.Content)
	}
}

func renderUser(w io.Writer, u models.User) {
	printf(w, "%s (%s)\n", u.Username, u.ID)
	if u.Fullname != "" {
		printf(w, "name:   %s\n", u.Fullname)
	}
	printf(w, "email:  %s\n", u.Email)
	if u.Avatar != "" {
		printf(w, "avatar: %s\n", u.Avatar)
	}
	if u.CoverImage != "" {
		printf(w, "cover:  %s\n", u.CoverImage)
	}
}

func renderPlaylists(w io.Writer, playlists []models.Playlist) {
	if len(playlists) == 0 {
		printf(w, "no playlists\n")
		return
	}
	t := newTable(w, "ID", "NAME", "VIDEOS", "DESCRIPTION")
	for _, p := range playlists {
		count := p.TotalVideos
		if count == 0 {
			count = len(p.Videos)
		}
		t.row(p.ID, p.Name, strconv.Itoa(count), p.Description)
	}
	t.done()
}

// renderStatus reports a list failure that the page swallowed.
func renderStatus(w io.Writer, s views.Status) {
	if s.Kind == views.KindNone {
		return
	}
	printf(w, "warning: some results could not be loaded (%s): %v\n", s.Kind, s.Err)
}
