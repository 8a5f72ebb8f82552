package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vidfriends/client/internal/forms"
	"github.com/vidfriends/client/internal/services"
	"github.com/vidfriends/client/internal/views"
)

func runVideos(ctx context.Context, deps *dependencies, args []string) error {
	params := views.DefaultFeedParams()
	fs := newFlags("videos", deps)
	fs.StringVar(&params.Query, "query", "", "search text")
	fs.StringVar(&params.SortBy, "sort-by", params.SortBy, "field to sort by")
	fs.StringVar(&params.SortType, "sort-type", params.SortType, "asc or desc")
	fs.IntVar(&params.Page, "page", params.Page, "page number")
	fs.IntVar(&params.Limit, "limit", params.Limit, "videos per page")
	fs.StringVar(&params.UserID, "user", "", "only videos uploaded by this user id")
	fs.StringVar(&params.Username, "username", "", "only videos uploaded by this username")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	feed := views.NewFeedPage(deps.svc)
	feed.Load(ctx, params)
	defer feed.Leave()

	renderStatus(deps.errOut, feed.Status())
	renderVideos(deps.out, feed.Videos, time.Now())
	if feed.Total > len(feed.Videos) {
		printf(deps.out, "page %d, %d videos in total\n", params.Page, feed.Total)
	}
	return nil
}

func runWatch(ctx context.Context, deps *dependencies, args []string) error {
	if err := wantArgs("watch", args, 1, "<videoId>"); err != nil {
		return err
	}
	page := views.NewWatchPage(deps.svc, deps.viewer(), deps.concurrency())
	defer page.Leave()
	if err := page.Load(ctx, args[0]); err != nil {
		return fmt.Errorf("load video: %w", err)
	}

	now := time.Now()
	renderStatus(deps.errOut, page.Status())
	renderVideo(deps.out, page.Video, now)
	if deps.viewer() != nil && !page.OwnVideo() {
		printf(deps.out, "\n")
		renderLike(deps.out, page.Like)
		renderSubscription(deps.out, page.Subscription)
	}
	renderComments(deps.out, page.Comments, now)
	return nil
}

func runComment(ctx context.Context, deps *dependencies, args []string) error {
	if err := wantArgs("comment", args, 2, "<videoId> <text>"); err != nil {
		return err
	}
	draft := forms.CommentDraft{Content: args[1]}
	if err := draft.Validate(); err != nil {
		return err
	}
	comment, err := deps.svc.Comments.Add(ctx, args[0], draft.Content)
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	printf(deps.out, "comment %s added\n", comment.ID)
	return nil
}

func runUpload(ctx context.Context, deps *dependencies, args []string) error {
	fs := newFlags("upload", deps)
	var (
		up               forms.VideoUpload
		video, thumbnail string
	)
	fs.StringVar(&up.Title, "title", "", "video title")
	fs.StringVar(&up.Description, "description", "", "video description")
	fs.StringVar(&video, "video", "", "video file: path, s3://bucket/key or minio://bucket/key")
	fs.StringVar(&thumbnail, "thumbnail", "", "thumbnail image location")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	probe := up
	if video != "" {
		probe.Video = &forms.File{Name: video}
	}
	if thumbnail != "" {
		probe.Thumbnail = &forms.File{Name: thumbnail}
	}
	if err := probe.Validate(); err != nil {
		return err
	}

	var release func()
	var err error
	if up.Video, release, err = openFile(ctx, deps, video); err != nil {
		return err
	}
	defer release()
	if up.Thumbnail, release, err = openFile(ctx, deps, thumbnail); err != nil {
		return err
	}
	defer release()

	uploaded, err := deps.svc.Videos.Upload(ctx, up, progressPrinter(deps))
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	printf(deps.out, "uploaded %s (%s)\n", uploaded.Title, uploaded.ID)
	return nil
}

// progressPrinter reports upload progress on stderr at most once per
// percent, or once per MiB when the total is unknown.
func progressPrinter(deps *dependencies) forms.ProgressFunc {
	var last atomic.Int64
	last.Store(-1)
	return func(sent, total int64) {
		var step int64
		if total > 0 {
			step = sent * 100 / total
		} else {
			step = sent >> 20
		}
		if last.Swap(step) == step {
			return
		}
		if total > 0 {
			printf(deps.errOut, "\ruploading %s / %s (%d%%)", humanize.Bytes(uint64(sent)), humanize.Bytes(uint64(total)), step)
			if sent >= total {
				printf(deps.errOut, "\n")
			}
			return
		}
		printf(deps.errOut, "\ruploading %s", humanize.Bytes(uint64(sent)))
	}
}

func runEditVideo(ctx context.Context, deps *dependencies, args []string) error {
	if len(args) < 1 {
		return usage("vidtube edit-video <id> [--title --description --thumbnail <src>]")
	}
	id := args[0]
	fs := newFlags("edit-video", deps)
	var title, description, thumbnail string
	fs.StringVar(&title, "title", "", "new title")
	fs.StringVar(&description, "description", "", "new description")
	fs.StringVar(&thumbnail, "thumbnail", "", "new thumbnail location")
	if err := parseFlags(fs, args[1:]); err != nil {
		return err
	}

	current, err := deps.svc.Videos.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load video: %w", err)
	}
	edit := forms.VideoEdit{Title: current.Title, Description: current.Description}
	if title != "" {
		edit.Title = title
	}
	if description != "" {
		edit.Description = description
	}
	if err := edit.Validate(); err != nil {
		return err
	}

	var release func()
	if edit.Thumbnail, release, err = openFile(ctx, deps, thumbnail); err != nil {
		return err
	}
	defer release()

	updated, err := deps.svc.Videos.Update(ctx, id, edit)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	printf(deps.out, "updated %s (%s)\n", updated.Title, id)
	return nil
}

func runDeleteVideo(ctx context.Context, deps *dependencies, args []string) error {
	if err := wantArgs("delete-video", args, 1, "<id>"); err != nil {
		return err
	}
	page := views.NewDashboardPage(deps.svc)
	defer page.Leave()
	if err := page.DeleteVideo(ctx, args[0]); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	printf(deps.out, "deleted %s\n", args[0])
	return nil
}

func runPublish(ctx context.Context, deps *dependencies, args []string) error {
	if err := wantArgs("publish", args, 1, "<id>"); err != nil {
		return err
	}
	page := views.NewDashboardPage(deps.svc)
	defer page.Leave()
	page.Load(ctx)
	if err := page.TogglePublish(ctx, args[0]); err != nil {
		return fmt.Errorf("toggle publish: %w", err)
	}
	for _, v := range page.Videos {
		if v.ID == args[0] {
			printf(deps.out, "%s is now %s\n", v.Title, publishState(v.IsPublished))
		}
	}
	return nil
}

func runDashboard(ctx context.Context, deps *dependencies, _ []string) error {
	page := views.NewDashboardPage(deps.svc)
	defer page.Leave()
	page.Load(ctx)

	renderStatus(deps.errOut, page.Status())
	s := page.Stats
	printf(deps.out, "subscribers %d · likes %d · views %s · videos %d\n\n",
		s.TotalSubscribers, s.TotalLikes, views.FormatViews(s.TotalViews), s.TotalVideos)
	renderDashboardVideos(deps.out, page.Videos, time.Now())
	return nil
}

func runLike(ctx context.Context, deps *dependencies, args []string) error {
	if err := wantArgs("like", args, 2, "<video|comment|tweet> <id>"); err != nil {
		return err
	}
	kind, err := services.ParseTargetKind(args[0])
	if err != nil {
		return err
	}
	return toggleLikeTarget(ctx, deps, services.Target{Kind: kind, ID: args[1]})
}

// ErrLikeStateUnknown is returned when the current like state could not be
// read, so no toggle is sent.
var ErrLikeStateUnknown = errors.New("current like state unavailable")

// toggleLikeTarget reads the server's like state for target, toggles it and
// prints the result.
func toggleLikeTarget(ctx context.Context, deps *dependencies, target services.Target) error {
	var state views.LikeState
	if failed := views.HydrateLikes(ctx, deps.svc.Reactions, []views.LikeItem{{Target: target, State: &state}}, 1); failed > 0 {
		return fmt.Errorf("like %s %s: %w", target.Kind, target.ID, ErrLikeStateUnknown)
	}
	if err := views.ToggleLike(ctx, deps.svc.Reactions, target, &state); err != nil {
		return fmt.Errorf("toggle like: %w", err)
	}
	renderLike(deps.out, state)
	return nil
}
