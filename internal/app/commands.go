package app

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/vidfriends/client/internal/config"
	"github.com/vidfriends/client/internal/forms"
	"github.com/vidfriends/client/internal/models"
	"github.com/vidfriends/client/internal/views"
)

type command struct {
	run func(ctx context.Context, deps *dependencies, args []string) error
	// restore loads the persisted session before running.
	restore bool
	// auth rejects the command when no one is logged in.
	auth bool
}

var commands = map[string]command{
	"migrate":       {run: runMigrate},
	"login":         {run: runLogin},
	"logout":        {run: runLogout},
	"whoami":        {run: runWhoami, restore: true},
	"refresh":       {run: runRefresh},
	"register":      {run: runRegister},
	"passwd":        {run: runPasswd, restore: true, auth: true},
	"account":       {run: runAccount, restore: true, auth: true},
	"avatar":        {run: runAvatar, restore: true, auth: true},
	"cover":         {run: runCover, restore: true, auth: true},
	"videos":        {run: runVideos, restore: true},
	"watch":         {run: runWatch, restore: true},
	"like":          {run: runLike, restore: true, auth: true},
	"subscribe":     {run: runSubscribe, restore: true, auth: true},
	"subscriptions": {run: runSubscriptions, restore: true, auth: true},
	"channel":       {run: runChannel, restore: true},
	"comment":       {run: runComment, restore: true, auth: true},
	"upload":        {run: runUpload, restore: true, auth: true},
	"edit-video":    {run: runEditVideo, restore: true, auth: true},
	"delete-video":  {run: runDeleteVideo, restore: true, auth: true},
	"publish":       {run: runPublish, restore: true, auth: true},
	"dashboard":     {run: runDashboard, restore: true, auth: true},
	"history":       {run: runHistory, restore: true, auth: true},
	"tweets":        {run: runTweets, restore: true, auth: true},
	"playlists":     {run: runPlaylists, restore: true, auth: true},
}

// viewer returns the logged-in user, or nil when browsing anonymously.
func (d *dependencies) viewer() *models.User {
	u, ok := d.session.User()
	if !ok {
		return nil
	}
	return &u
}

func (d *dependencies) concurrency() int {
	if d.cfg.HydrateConcurrency > 0 {
		return d.cfg.HydrateConcurrency
	}
	return views.DefaultHydrateConcurrency
}

func newFlags(name string, deps *dependencies) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(deps.errOut)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usage("%s: %v", fs.Name(), err)
	}
	return nil
}

func wantArgs(name string, args []string, n int, shape string) error {
	if len(args) != n {
		return usage("vidtube %s %s", name, shape)
	}
	return nil
}

// openFile resolves an optional media location into a file part. The
// returned release func is never nil.
func openFile(ctx context.Context, deps *dependencies, location string) (*forms.File, func(), error) {
	if location == "" {
		return nil, func() {}, nil
	}
	media, err := deps.media.Open(ctx, location)
	if err != nil {
		return nil, func() {}, err
	}
	f := media.File()
	return &f, func() { _ = media.Close() }, nil
}

func runMigrate(ctx context.Context, deps *dependencies, _ []string) error {
	if deps.postgres == nil {
		return fmt.Errorf("migrate: only the %s token store has a schema", config.TokenStorePostgres)
	}
	if err := deps.postgres.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure token schema: %w", err)
	}
	printf(deps.out, "token schema ready\n")
	return nil
}

func runLogin(ctx context.Context, deps *dependencies, args []string) error {
	if err := wantArgs("login", args, 2, "<email> <password>"); err != nil {
		return err
	}
	user, err := deps.session.Login(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	printf(deps.out, "logged in as %s\n", user.Username)
	return nil
}

func runLogout(ctx context.Context, deps *dependencies, _ []string) error {
	if err := deps.session.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	printf(deps.out, "logged out\n")
	return nil
}

func runWhoami(ctx context.Context, deps *dependencies, _ []string) error {
	user, ok := deps.session.User()
	if !ok {
		printf(deps.out, "not logged in\n")
		return nil
	}
	renderUser(deps.out, user)

	exp, err := deps.session.AccessTokenExpiry(ctx)
	if err != nil {
		return nil
	}
	now := time.Now()
	if exp.Before(now) {
		printf(deps.out, "token:  expired %s\n", views.FormatAge(exp, now))
	} else {
		printf(deps.out, "token:  expires %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}

func runRefresh(ctx context.Context, deps *dependencies, _ []string) error {
	if err := deps.session.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	printf(deps.out, "tokens refreshed\n")
	return nil
}

func runRegister(ctx context.Context, deps *dependencies, args []string) error {
	fs := newFlags("register", deps)
	var (
		reg           forms.Registration
		avatar, cover string
	)
	fs.StringVar(&reg.Username, "username", "", "unique username")
	fs.StringVar(&reg.Fullname, "fullname", "", "display name")
	fs.StringVar(&reg.Email, "email", "", "email address")
	fs.StringVar(&reg.Password, "password", "", "password")
	fs.StringVar(&reg.ConfirmPassword, "confirm", "", "password again")
	fs.StringVar(&avatar, "avatar", "", "avatar image: path, s3://bucket/key or minio://bucket/key")
	fs.StringVar(&cover, "cover", "", "optional cover image location")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	// The form is checked before any media is opened.
	probe := reg
	if avatar != "" {
		probe.Avatar = &forms.File{Name: avatar}
	}
	if err := probe.Validate(); err != nil {
		return err
	}

	var release func()
	var err error
	if reg.Avatar, release, err = openFile(ctx, deps, avatar); err != nil {
		return err
	}
	defer release()
	if reg.CoverImage, release, err = openFile(ctx, deps, cover); err != nil {
		return err
	}
	defer release()

	user, err := deps.session.Register(ctx, reg)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	printf(deps.out, "registered %s; run vidtube login to sign in\n", user.Username)
	return nil
}

func runPasswd(ctx context.Context, deps *dependencies, args []string) error {
	if err := wantArgs("passwd", args, 3, "<old> <new> <confirm>"); err != nil {
		return err
	}
	change := forms.PasswordChange{OldPassword: args[0], NewPassword: args[1], ConfirmPassword: args[2]}
	if err := deps.session.ChangePassword(ctx, change); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	printf(deps.out, "password changed\n")
	return nil
}

func runAccount(ctx context.Context, deps *dependencies, args []string) error {
	fs := newFlags("account", deps)
	var patch forms.AccountUpdate
	fs.StringVar(&patch.Username, "username", "", "new username")
	fs.StringVar(&patch.Email, "email", "", "new email address")
	fs.StringVar(&patch.Fullname, "fullname", "", "new display name")
	fs.StringVar(&patch.Bio, "bio", "", "new bio")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	if _, err := deps.svc.Accounts.UpdateAccount(ctx, patch); err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	user, err := deps.session.Reload(ctx)
	if err != nil {
		return err
	}
	renderUser(deps.out, user)
	return nil
}

func runAvatar(ctx context.Context, deps *dependencies, args []string) error {
	return updateImage(ctx, deps, "avatar", args, deps.svc.Accounts.UpdateAvatar)
}

func runCover(ctx context.Context, deps *dependencies, args []string) error {
	return updateImage(ctx, deps, "cover", args, deps.svc.Accounts.UpdateCoverImage)
}

func updateImage(ctx context.Context, deps *dependencies, name string, args []string, update func(context.Context, forms.File) (models.User, error)) error {
	if err := wantArgs(name, args, 1, "<path|s3://bucket/key|minio://bucket/key>"); err != nil {
		return err
	}
	f, release, err := openFile(ctx, deps, args[0])
	if err != nil {
		return err
	}
	defer release()

	if _, err := update(ctx, *f); err != nil {
		return fmt.Errorf("update %s: %w", name, err)
	}
	user, err := deps.session.Reload(ctx)
	if err != nil {
		return err
	}
	renderUser(deps.out, user)
	return nil
}
