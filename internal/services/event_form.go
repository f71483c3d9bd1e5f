package services

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"
	"unicode"

	"volunteermap/internal/clock"
	"volunteermap/internal/domain"
)

// Messages shown by the creation form.
const (
	MsgFieldsRequired  = "All fields except image are required."
	MsgEventAdded      = "Event added successfully!"
	MsgEventAddFailed  = "Failed to add event."
	MsgEventAddError   = "An error occurred while adding the event."
	MsgImageUploaded   = "Image uploaded successfully!"
	MsgImageUploadFail = "Failed to upload image."
	MsgImagePickFail   = "Failed to pick image."

	titleError       = "Error"
	titleSuccess     = "Success"
	titleImageUpload = "Image Upload"
)

// isoMillis is the wire format for dateTime (UTC, millisecond precision).
const isoMillis = "2006-01-02T15:04:05.000Z"

// FormState is where a form is in its submission state machine.
type FormState string

const (
	FormIdle       FormState = "idle"
	FormValidating FormState = "validating"
	FormSubmitting FormState = "submitting"
	FormSubmitted  FormState = "submitted"
)

// SubmitOutcome is the result class of one submit attempt.
type SubmitOutcome string

const (
	SubmitSuccess  SubmitOutcome = "success"
	SubmitRejected SubmitOutcome = "rejected"
	SubmitFailed   SubmitOutcome = "failed"
)

// SubmitResult tells the caller what happened and where to go next.
type SubmitResult struct {
	Outcome  SubmitOutcome
	Err      error
	Navigate domain.Screen
	Payload  *domain.EventPayload
}

// FormSnapshot is a read-only copy of the form for rendering.
type FormSnapshot struct {
	Draft          domain.EventDraft
	State          FormState
	DatePickerOpen bool
}

// EventFormDeps are the collaborators of an EventForm.
type EventFormDeps struct {
	API         domain.EventsAPI
	Uploader    domain.ImageUploader
	Notifier    domain.Notifier
	Clock       clock.Clock
	Logger      *slog.Logger
	Position    domain.Position
	OrganizerID string
}

// EventForm is the event creation screen. One instance owns one draft.
type EventForm struct {
	api      domain.EventsAPI
	uploader domain.ImageUploader
	notifier domain.Notifier
	logger   *slog.Logger

	mu             sync.Mutex
	draft          domain.EventDraft
	state          FormState
	datePickerOpen bool
	pickSeq        uint64
}

// NewEventForm returns a form populated with defaults.
func NewEventForm(deps EventFormDeps) *EventForm {
	clk := deps.Clock
	if clk == nil {
		clk = clock.NewSystem()
	}
	pos := deps.Position
	if pos == (domain.Position{}) {
		pos = domain.DefaultPosition
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = domain.NotifierFunc(func(domain.Notification) {})
	}
	return &EventForm{
		api:      deps.API,
		uploader: deps.Uploader,
		notifier: notifier,
		logger:   logger,
		draft:    domain.NewEventDraft(clk.Now(), pos, deps.OrganizerID),
		state:    FormIdle,
	}
}

func (f *EventForm) SetName(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Name = v
}

func (f *EventForm) SetDescription(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Description = v
}

func (f *EventForm) SetVolunteersNeeded(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.VolunteersNeeded = v
}

// OpenDatePicker marks the date picker as shown.
func (f *EventForm) OpenDatePicker() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.datePickerOpen = true
}

// PickDate closes the picker and, if a date was selected, replaces DateTime. Any date is accepted.
func (f *EventForm) PickDate(selected *time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.datePickerOpen = false
	if selected != nil {
		f.draft.DateTime = *selected
	}
}

// PickPosition moves the pin. Coordinates are not bounds-checked.
func (f *EventForm) PickPosition(latitude, longitude float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Position = domain.Position{Latitude: latitude, Longitude: longitude}
}

// Snapshot returns a copy of the current draft.
func (f *EventForm) Snapshot() FormSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormSnapshot{Draft: f.draft, State: f.state, DatePickerOpen: f.datePickerOpen}
}

// PickImage runs the picker, shows the local preview at once, then uploads it.
// A failed upload keeps the preview and is not retried. It returns the reference
// the form ended up with for this pick.
func (f *EventForm) PickImage(ctx context.Context, picker domain.ImagePicker) (domain.ImageRef, error) {
	picked, ok, err := picker.Pick(ctx)
	if err != nil {
		f.logger.Error("image pick failed", "err", err)
		f.notifier.Notify(domain.Notification{Kind: domain.NotifyError, Title: titleError, Message: MsgImagePickFail})
		return f.Snapshot().Draft.Image, domain.NewWorkflowError(domain.ErrUpload, err)
	}
	if !ok {
		return f.Snapshot().Draft.Image, nil
	}

	f.mu.Lock()
	f.pickSeq++
	seq := f.pickSeq
	f.draft.Image = domain.PendingImage(picked.URI)
	f.mu.Unlock()

	hostedURL, err := f.upload(ctx, picked.URI)
	if err != nil {
		f.logger.Error("image upload failed", "err", err, "uri", picked.URI)
		f.settleImage(seq, domain.LocalImage(picked.URI))
		f.notifier.Notify(domain.Notification{Kind: domain.NotifyError, Title: titleError, Message: MsgImageUploadFail})
		return domain.LocalImage(picked.URI), domain.NewWorkflowError(domain.ErrUpload, err)
	}
	f.settleImage(seq, domain.HostedImage(hostedURL))
	f.notifier.Notify(domain.Notification{Kind: domain.NotifySuccess, Title: titleImageUpload, Message: MsgImageUploaded})
	return domain.HostedImage(hostedURL), nil
}

// settleImage stores ref unless a newer pick has replaced the preview meanwhile.
func (f *EventForm) settleImage(seq uint64, ref domain.ImageRef) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seq == f.pickSeq {
		f.draft.Image = ref
	}
}

func (f *EventForm) upload(ctx context.Context, uri string) (string, error) {
	if f.uploader == nil {
		return "", errors.New("no image uploader configured")
	}
	return f.uploader.Upload(ctx, uri)
}

// Submit validates the draft, posts it once, and reports where to navigate.
func (f *EventForm) Submit(ctx context.Context) SubmitResult {
	f.mu.Lock()
	f.state = FormValidating
	draft := f.draft
	f.mu.Unlock()

	if err := ValidateDraft(draft); err != nil {
		f.setState(FormIdle)
		f.notifier.Notify(domain.Notification{Kind: domain.NotifyError, Title: titleError, Message: MsgFieldsRequired})
		return SubmitResult{Outcome: SubmitRejected, Err: err}
	}

	payload := BuildPayload(draft)
	f.setState(FormSubmitting)

	if err := f.api.CreateEvent(ctx, payload); err != nil {
		f.setState(FormIdle)
		msg := MsgEventAddError
		if errors.Is(err, domain.ErrUnexpectedStatus) {
			msg = MsgEventAddFailed
		}
		f.logger.Error("create event failed", "err", err)
		f.notifier.Notify(domain.Notification{Kind: domain.NotifyError, Title: titleError, Message: msg})
		return SubmitResult{Outcome: SubmitFailed, Err: domain.NewWorkflowError(domain.ErrSubmission, err), Payload: &payload}
	}

	f.setState(FormSubmitted)
	f.logger.Info("event created", "name", payload.Name, "organizer_id", payload.OrganizerID)
	f.notifier.Notify(domain.Notification{Kind: domain.NotifySuccess, Title: titleSuccess, Message: MsgEventAdded})
	return SubmitResult{Outcome: SubmitSuccess, Navigate: domain.ScreenEventMap, Payload: &payload}
}

func (f *EventForm) setState(s FormState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = s
}

// ValidateDraft checks that every field except the image is present.
// Latitude and longitude must both be non-zero. The headcount is only checked for presence.
func ValidateDraft(d domain.EventDraft) error {
	var missing []string
	if d.Name == "" {
		missing = append(missing, "name")
	}
	if d.Description == "" {
		missing = append(missing, "description")
	}
	if d.VolunteersNeeded == "" {
		missing = append(missing, "volunteersNeeded")
	}
	if d.DateTime.IsZero() {
		missing = append(missing, "dateTime")
	}
	if d.Position.Latitude == 0 || d.Position.Longitude == 0 {
		missing = append(missing, "position")
	}
	if len(missing) > 0 {
		return domain.NewWorkflowError(domain.ErrValidation, errors.New("missing "+strings.Join(missing, ", ")))
	}
	return nil
}

// BuildPayload shapes a validated draft into the create-event body.
func BuildPayload(d domain.EventDraft) domain.EventPayload {
	var volunteers *int
	if n, ok := ParseIntPrefix(d.VolunteersNeeded); ok {
		volunteers = &n
	}
	return domain.EventPayload{
		Name:             d.Name,
		Description:      d.Description,
		ImageURL:         d.Image.PayloadURL(),
		DateTime:         d.DateTime.UTC().Format(isoMillis),
		VolunteersNeeded: volunteers,
		OrganizerID:      d.OrganizerID,
		Position:         d.Position,
	}
}

// ParseIntPrefix reads a base-10 integer the way a lenient text field does: leading
// whitespace and an optional sign are allowed and parsing stops at the first non-digit.
// ok is false when no digit is found (the value is NaN).
// Values beyond the int range saturate at math.MaxInt (or -math.MaxInt); the headcount
// is an integer on the wire, so a float such as 1e21 is never produced.
func ParseIntPrefix(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, isLeadingSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		if n > (math.MaxInt-9)/10 {
			n = math.MaxInt
		} else {
			n = n*10 + int(c-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// isLeadingSpace matches the whitespace skipped before a number: Unicode white space
// except NEL, plus the byte order mark.
func isLeadingSpace(r rune) bool {
	if r == '\ufeff' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}
