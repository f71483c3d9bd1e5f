package imagepicker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"volunteermap/internal/domain"
)

// sniffLen is how many bytes http.DetectContentType looks at.
const sniffLen = 512

// FilePicker "picks" a file already chosen by the user, such as a path typed at a prompt.
// An empty path is treated as a cancelled pick.
type FilePicker struct {
	Path string
}

// NewFilePicker returns a picker for path.
func NewFilePicker(path string) domain.ImagePicker {
	return FilePicker{Path: strings.TrimSpace(path)}
}

func (p FilePicker) Pick(ctx context.Context) (domain.PickedImage, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.PickedImage{}, false, err
	}
	if p.Path == "" {
		return domain.PickedImage{}, false, nil
	}
	abs, err := filepath.Abs(p.Path)
	if err != nil {
		return domain.PickedImage{}, false, fmt.Errorf("resolve image path: %w", err)
	}
	f, err := os.Open(abs)
	if err != nil {
		return domain.PickedImage{}, false, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return domain.PickedImage{}, false, fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return domain.PickedImage{}, false, fmt.Errorf("%s is a directory", abs)
	}

	head := make([]byte, sniffLen)
	n, _ := f.Read(head)
	if ct := http.DetectContentType(head[:n]); !strings.HasPrefix(ct, "image/") {
		return domain.PickedImage{}, false, fmt.Errorf("%s is not an image (%s)", abs, ct)
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return domain.PickedImage{URI: u.String()}, true, nil
}
