package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"volunteermap/internal/adapters/imagepicker"
	"volunteermap/internal/clock"
	"volunteermap/internal/domain"
	"volunteermap/internal/services"
)

// Layouts accepted by the date command, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Deps are the collaborators the terminal front-end wires into each screen.
type Deps struct {
	API         domain.EventsAPI
	Auth        services.AuthService
	AuthContext *services.AuthContext
	Store       domain.SessionStore
	Uploader    domain.ImageUploader
	Notifier    domain.Notifier
	Clock       clock.Clock
	Logger      *slog.Logger
	Region      domain.Region
	Padding     domain.EdgePadding
	Position    domain.Position
	OrganizerID string
}

// App is a line-oriented front-end. It owns the current screen and creates a fresh
// screen instance on every navigation.
type App struct {
	deps     Deps
	out      io.Writer
	notifier domain.Notifier

	screen  domain.Screen
	form    *services.EventForm
	mapView *services.EventMap

	uploads sync.WaitGroup
}

// NewApp returns an App writing to out.
func NewApp(deps Deps, out io.Writer) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = clock.NewSystem()
	}
	out = NewSyncWriter(out)
	notifier := deps.Notifier
	if notifier == nil {
		notifier = NewConsoleNotifier(out)
	}
	return &App{deps: deps, out: out, notifier: notifier}
}

// Screen returns the current screen.
func (a *App) Screen() domain.Screen { return a.screen }

// Form returns the active creation form, or nil when another screen is shown.
func (a *App) Form() *services.EventForm { return a.form }

// Map returns the active map screen, or nil when another screen is shown.
func (a *App) Map() *services.EventMap { return a.mapView }

// Start restores a saved session and shows the first screen.
func (a *App) Start(ctx context.Context) {
	screen := domain.ScreenLogin
	if a.deps.Auth != nil {
		restored, err := a.deps.Auth.Restore(ctx)
		if err != nil {
			a.deps.Logger.Error("restore session failed", "err", err)
		}
		screen = restored
	}
	a.Navigate(ctx, screen)
}

// Navigate discards the current screen and activates target.
func (a *App) Navigate(ctx context.Context, target domain.Screen) {
	if target == domain.ScreenNone {
		return
	}
	a.form, a.mapView = nil, nil
	a.screen = target

	switch target {
	case domain.ScreenEventMap:
		a.mapView = services.NewEventMap(services.EventMapDeps{
			API:      a.deps.API,
			Store:    a.deps.Store,
			Auth:     a.deps.AuthContext,
			Notifier: a.notifier,
			Logger:   a.deps.Logger,
			Region:   a.deps.Region,
			Padding:  a.deps.Padding,
		})
		_ = a.mapView.Activate(ctx)
		a.mapView.Layout()
	case domain.ScreenAddEvent:
		a.form = services.NewEventForm(services.EventFormDeps{
			API:         a.deps.API,
			Uploader:    a.deps.Uploader,
			Notifier:    a.notifier,
			Clock:       a.deps.Clock,
			Logger:      a.deps.Logger,
			Position:    a.deps.Position,
			OrganizerID: a.deps.OrganizerID,
		})
	}
	a.render()
}

// Run reads commands from in until EOF, "quit", or ctx is done.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	a.Start(ctx)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
		close(lines)
	}()

	defer a.uploads.Wait()
	for {
		a.prompt()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			if quit := a.Handle(ctx, line); quit {
				return nil
			}
		}
	}
}

// Handle executes one command line. It reports whether the user asked to quit.
func (a *App) Handle(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "":
		return false
	case "quit", "exit":
		return true
	case "help":
		a.help()
		return false
	}

	var err error
	switch a.screen {
	case domain.ScreenLogin:
		err = a.handleLogin(ctx, cmd, arg)
	case domain.ScreenEventMap:
		err = a.handleMap(ctx, cmd)
	case domain.ScreenAddEvent:
		err = a.handleForm(ctx, cmd, arg)
	}
	if err != nil {
		fmt.Fprintf(a.out, "%v\n", err)
	}
	return false
}

var errUnknownCommand = errors.New("unknown command (type help)")

func (a *App) handleLogin(ctx context.Context, cmd, arg string) error {
	if cmd != "login" {
		return errUnknownCommand
	}
	email, password, ok := strings.Cut(arg, " ")
	if !ok || email == "" || password == "" {
		return errors.New("usage: login <email> <password>")
	}
	if a.deps.Auth == nil {
		a.Navigate(ctx, domain.ScreenEventMap)
		return nil
	}
	screen, err := a.deps.Auth.Login(ctx, email, strings.TrimSpace(password))
	if err != nil {
		return nil
	}
	a.Navigate(ctx, screen)
	return nil
}

func (a *App) handleMap(ctx context.Context, cmd string) error {
	switch cmd {
	case "list", "show":
		a.render()
	case "new":
		a.Navigate(ctx, a.mapView.CreateEvent())
	case "logout":
		a.Navigate(ctx, a.mapView.Logout(ctx))
	default:
		return errUnknownCommand
	}
	return nil
}

func (a *App) handleForm(ctx context.Context, cmd, arg string) error {
	f := a.form
	switch cmd {
	case "name":
		f.SetName(arg)
	case "description", "desc":
		f.SetDescription(arg)
	case "volunteers":
		f.SetVolunteersNeeded(arg)
	case "date":
		f.OpenDatePicker()
		if arg == "" {
			f.PickDate(nil)
			return nil
		}
		t, err := parseDate(arg, a.deps.Clock.Now().Location())
		if err != nil {
			f.PickDate(nil)
			return err
		}
		f.PickDate(&t)
	case "pin":
		lat, lng, err := parseCoordinate(arg)
		if err != nil {
			return err
		}
		f.PickPosition(lat, lng)
	case "image":
		picker := imagepicker.NewFilePicker(arg)
		a.uploads.Add(1)
		go func() {
			defer a.uploads.Done()
			_, _ = f.PickImage(ctx, picker)
		}()
	case "show":
		a.render()
	case "submit":
		res := f.Submit(ctx)
		if res.Outcome == services.SubmitSuccess {
			a.Navigate(ctx, res.Navigate)
		}
	case "back", "cancel":
		a.Navigate(ctx, domain.ScreenEventMap)
	default:
		return errUnknownCommand
	}
	return nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (try 2006-01-02 15:04)", s)
}

func parseCoordinate(s string) (float64, float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != 2 {
		return 0, 0, errors.New("usage: pin <latitude> <longitude>")
	}
	lat, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude: %w", err)
	}
	return lat, lng, nil
}

// Wait blocks until background uploads finish.
func (a *App) Wait() { a.uploads.Wait() }
