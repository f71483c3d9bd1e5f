package domain

import "context"

// ImageState tags which variant an ImageRef holds.
type ImageState int

const (
	// ImageAbsent means no image was picked.
	ImageAbsent ImageState = iota
	// ImagePending means a local pick is shown while its upload is in flight.
	ImagePending
	// ImageLocal means the upload failed; the local preview is kept.
	ImageLocal
	// ImageHosted means the upload finished and URI is the hosted URL.
	ImageHosted
)

func (s ImageState) String() string {
	switch s {
	case ImagePending:
		return "pending"
	case ImageLocal:
		return "local"
	case ImageHosted:
		return "hosted"
	default:
		return "absent"
	}
}

// PickedImageName is the local name given to every picked image.
const PickedImageName = "selectedImage.jpg"

// ImageRef is the form's image reference: Absent, Pending(localURI), Local(localURI) or Hosted(url).
type ImageRef struct {
	State     ImageState
	URI       string
	LocalName string
}

// NoImage returns the absent reference.
func NoImage() ImageRef { return ImageRef{State: ImageAbsent} }

// PendingImage returns a preview reference for a pick whose upload has started.
func PendingImage(localURI string) ImageRef {
	return ImageRef{State: ImagePending, URI: localURI, LocalName: PickedImageName}
}

// LocalImage returns a preview reference for a pick whose upload failed.
func LocalImage(localURI string) ImageRef {
	return ImageRef{State: ImageLocal, URI: localURI, LocalName: PickedImageName}
}

// HostedImage returns a reference to an uploaded image.
func HostedImage(url string) ImageRef {
	return ImageRef{State: ImageHosted, URI: url, LocalName: PickedImageName}
}

// IsAbsent reports whether no image was picked.
func (r ImageRef) IsAbsent() bool { return r.State == ImageAbsent }

// PayloadURL returns the reference's current URI, or nil when no image was picked.
// A pending or failed upload yields the local preview URI.
func (r ImageRef) PayloadURL() *string {
	if r.State == ImageAbsent {
		return nil
	}
	u := r.URI
	return &u
}

// PickedImage is a selection made in the device image picker.
type PickedImage struct {
	URI string
}

// ImagePicker opens the device picker. ok is false when the user cancels.
type ImagePicker interface {
	Pick(ctx context.Context) (img PickedImage, ok bool, err error)
}

// ImageUploader sends a local image to the image host and returns its hosted URL.
type ImageUploader interface {
	Upload(ctx context.Context, localURI string) (string, error)
}
