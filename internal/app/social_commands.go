package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vidfriends/client/internal/logging"
	"github.com/vidfriends/client/internal/services"
	"github.com/vidfriends/client/internal/views"
)

func runSubscribe(ctx context.Context, deps *dependencies, args []string) error {
	if err := wantArgs("subscribe", args, 1, "<channelId>"); err != nil {
		return err
	}
	channelID := args[0]

	var state views.SubscriptionState
	subscribed, err := deps.svc.Subscriptions.Check(ctx, channelID)
	if err != nil {
		return fmt.Errorf("check subscription: %w", err)
	}
	state.Subscribed = subscribed
	subscribers, err := deps.svc.Subscriptions.Subscribers(ctx, channelID)
	countKnown := err == nil
	if countKnown {
		state.Subscribers = len(subscribers)
	} else {
		logging.FromContext(ctx).Warn("subscriber count unavailable", slog.Any("error", err))
	}

	if err := views.ToggleSubscription(ctx, deps.svc.Subscriptions, channelID, &state); err != nil {
		return fmt.Errorf("toggle subscription: %w", err)
	}
	if !countKnown {
		printf(deps.out, "%s\n", subscriptionFlag(state.Subscribed))
		return nil
	}
	renderSubscription(deps.out, state)
	return nil
}

func runSubscriptions(ctx context.Context, deps *dependencies, args []string) error {
	page := views.NewSubscriptionsPage(deps.svc, *deps.viewer())
	defer page.Leave()

	if len(args) == 2 && args[0] == "remove" {
		if err := page.Unsubscribe(ctx, args[1]); err != nil {
			return fmt.Errorf("unsubscribe: %w", err)
		}
		printf(deps.out, "unsubscribed from %s\n", args[1])
		return nil
	}
	if len(args) != 0 {
		return usage("vidtube subscriptions [remove <channelId>]")
	}
	page.Load(ctx)

	renderStatus(deps.errOut, page.Status())
	if len(page.Subscriptions) == 0 {
		printf(deps.out, "no subscriptions\n")
		return nil
	}
	t := newTable(deps.out, "CHANNEL", "USERNAME", "SINCE")
	for _, s := range page.Subscriptions {
		t.row(s.Channel.ID, s.Channel.Username, views.FormatAge(s.CreatedAt, time.Now()))
	}
	t.done()
	return nil
}

func runChannel(ctx context.Context, deps *dependencies, args []string) error {
	if err := wantArgs("channel", args, 1, "<username>"); err != nil {
		return err
	}
	page := views.NewChannelPage(deps.svc, deps.viewer(), deps.concurrency())
	defer page.Leave()
	if err := page.Load(ctx, args[0]); err != nil {
		return fmt.Errorf("load channel: %w", err)
	}

	now := time.Now()
	c := page.Channel
	renderStatus(deps.errOut, page.Status())
	printf(deps.out, "%s (@%s)\n", c.Fullname, c.Username)
	printf(deps.out, "%d subscribers · %d subscribed\n", c.SubscribersCount, c.ChannelsSubscribedToCount)
	if deps.viewer() != nil && !page.OwnChannel() {
		renderSubscription(deps.out, page.Subscription)
	}
	printf(deps.out, "\n")
	renderVideos(deps.out, page.Videos, now)
	printf(deps.out, "\n")
	renderTweets(deps.out, page.Tweets, now)
	return nil
}

func runHistory(ctx context.Context, deps *dependencies, args []string) error {
	page := views.NewHistoryPage(deps.svc)
	defer page.Leave()

	switch {
	case len(args) == 0:
		page.Load(ctx)
		renderStatus(deps.errOut, page.Status())
		renderVideos(deps.out, page.Videos, time.Now())
	case len(args) == 1 && args[0] == "clear":
		if err := page.Clear(ctx); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		printf(deps.out, "history cleared\n")
	case len(args) == 2 && args[0] == "remove":
		if err := page.Remove(ctx, args[1]); err != nil {
			return fmt.Errorf("remove from history: %w", err)
		}
		printf(deps.out, "removed %s from history\n", args[1])
	default:
		return usage("vidtube history [clear|remove <videoId>]")
	}
	return nil
}

func runTweets(ctx context.Context, deps *dependencies, args []string) error {
	page := views.NewTweetsPage(deps.svc, *deps.viewer())
	defer page.Leave()

	sub := ""
	if len(args) > 0 {
		sub = args[0]
	}
	switch {
	case len(args) == 0:
		page.Load(ctx)
		renderStatus(deps.errOut, page.Status())
		renderTweets(deps.out, page.Tweets, time.Now())
	case sub == "post" && len(args) >= 2:
		if err := page.Post(ctx, strings.Join(args[1:], " ")); err != nil {
			return fmt.Errorf("post tweet: %w", err)
		}
		printf(deps.out, "posted\n")
	case sub == "edit" && len(args) >= 3:
		if err := page.Edit(ctx, args[1], strings.Join(args[2:], " ")); err != nil {
			return fmt.Errorf("edit tweet: %w", err)
		}
		printf(deps.out, "edited %s\n", args[1])
	case sub == "delete" && len(args) == 2:
		if err := page.Delete(ctx, args[1]); err != nil {
			return fmt.Errorf("delete tweet: %w", err)
		}
		printf(deps.out, "deleted %s\n", args[1])
	case sub == "like" && len(args) == 2:
		return toggleLikeTarget(ctx, deps, services.Target{Kind: services.TargetTweet, ID: args[1]})
	default:
		return usage("vidtube tweets [post <text>|edit <id> <text>|delete <id>|like <id>]")
	}
	return nil
}

func runPlaylists(ctx context.Context, deps *dependencies, args []string) error {
	sub := ""
	if len(args) > 0 {
		sub = args[0]
	}

	switch {
	case len(args) == 0:
		page := views.NewPlaylistsPage(deps.svc, *deps.viewer())
		defer page.Leave()
		page.Load(ctx)
		renderStatus(deps.errOut, page.Status())
		renderPlaylists(deps.out, page.Playlists)
	case sub == "create" && (len(args) == 2 || len(args) == 3):
		in := services.PlaylistInput{Name: args[1]}
		if len(args) == 3 {
			in.Description = args[2]
		}
		page := views.NewPlaylistsPage(deps.svc, *deps.viewer())
		defer page.Leave()
		created, err := page.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("create playlist: %w", err)
		}
		printf(deps.out, "created %s (%s)\n", created.Name, created.ID)
	case sub == "show" && len(args) == 2:
		page := views.NewPlaylistPage(deps.svc)
		defer page.Leave()
		if err := page.Load(ctx, args[1]); err != nil {
			return fmt.Errorf("load playlist: %w", err)
		}
		printf(deps.out, "%s\n", page.Playlist.Name)
		if page.Playlist.Description != "" {
			printf(deps.out, "%s\n", page.Playlist.Description)
		}
		printf(deps.out, "\n")
		renderVideos(deps.out, page.Playlist.Videos, time.Now())
	case sub == "add" && len(args) == 3:
		if err := deps.svc.Playlists.AddVideo(ctx, args[1], args[2]); err != nil {
			return fmt.Errorf("add to playlist: %w", err)
		}
		printf(deps.out, "added %s to %s\n", args[1], args[2])
	case sub == "remove" && len(args) == 3:
		page := views.NewPlaylistPage(deps.svc)
		defer page.Leave()
		page.Playlist.ID = args[2]
		if err := page.RemoveVideo(ctx, args[1]); err != nil {
			return fmt.Errorf("remove from playlist: %w", err)
		}
		printf(deps.out, "removed %s from %s\n", args[1], args[2])
	case sub == "delete" && len(args) == 2:
		page := views.NewPlaylistsPage(deps.svc, *deps.viewer())
		defer page.Leave()
		if err := page.Delete(ctx, args[1]); err != nil {
			return fmt.Errorf("delete playlist: %w", err)
		}
		printf(deps.out, "deleted %s\n", args[1])
	default:
		return usage("vidtube playlists [create <name> [desc]|show <id>|add <videoId> <playlistId>|remove <videoId> <playlistId>|delete <id>]")
	}
	return nil
}
