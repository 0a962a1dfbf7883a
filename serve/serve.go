// Package serve exposes framebuffer captures over HTTP. Single bitmaps are
// served from /frame and a websocket at /watch pushes a new bitmap on every
// tick.
package serve

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo"
	"github.com/tmpim/fbgrab"
)

// DefaultInterval is the time between frames pushed to watchers.
const DefaultInterval = time.Second

// MinInterval bounds how often watchers may ask for a frame.
const MinInterval = 10 * time.Millisecond

// Service captures frames from one framebuffer device. Captures are
// serialized, so the device is never read by two requests at once.
type Service struct {
	mutex    *sync.Mutex
	device   string
	open     fbgrab.Opener
	interval time.Duration
}

// NewService returns a service reading the framebuffer at device.
func NewService(device string, open fbgrab.Opener, interval time.Duration) *Service {
	if interval < MinInterval {
		interval = DefaultInterval
	}

	return &Service{
		mutex:    new(sync.Mutex),
		device:   device,
		open:     open,
		interval: interval,
	}
}

// Register adds the service's routes to g.
func (s *Service) Register(g *echo.Group) {
	g.GET("/frame", s.handleFrame)
	g.GET("/geometry", s.handleGeometry)
	g.GET("/watch", s.handleWatch)
}

// Geometry queries the device layout without reading a frame.
func (s *Service) Geometry() (fbgrab.FrameGeometry, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	src, err := s.open(s.device)
	if err != nil {
		return fbgrab.FrameGeometry{}, fbgrab.StepError(fbgrab.OpenFailed, err)
	}
	defer src.Close()

	g, err := src.Geometry()
	if err != nil {
		return g, fbgrab.StepError(fbgrab.QueryFailed, err)
	}

	return g, nil
}

// Snapshot captures one frame and returns it encoded as a bitmap.
func (s *Service) Snapshot(factor int) ([]byte, error) {
	plan, err := fbgrab.NewSamplingPlan(factor)
	if err != nil {
		return nil, err
	}

	g, frame, err := s.grab()
	if err != nil {
		return nil, err
	}

	fbgrab.NormalizeAlpha(frame, g)

	buf := bytes.NewBuffer(make([]byte, 0, fbgrab.HeaderLength+plan.PixelArraySize(g)))
	if _, _, err := fbgrab.Encode(buf, frame, g, plan); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (s *Service) grab() (fbgrab.FrameGeometry, []byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	src, err := s.open(s.device)
	if err != nil {
		return fbgrab.FrameGeometry{}, nil, fbgrab.StepError(fbgrab.OpenFailed, err)
	}

	return fbgrab.Grab(src)
}

func parseResolution(c echo.Context) (int, error) {
	param := c.QueryParam("resolution")
	if param == "" {
		return 1, nil
	}

	factor, err := strconv.Atoi(param)
	if err != nil || factor < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest,
			"Invalid resolution division: "+param)
	}

	return factor, nil
}

func captureError(err error) error {
	if errors.Is(err, fbgrab.ErrInvalidFactor) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (s *Service) handleFrame(c echo.Context) error {
	factor, err := parseResolution(c)
	if err != nil {
		return err
	}

	data, err := s.Snapshot(factor)
	if err != nil {
		c.Logger().Errorf("fbgrab serve: frame: %v", err)
		return captureError(err)
	}

	return c.Blob(http.StatusOK, "image/bmp", data)
}

func (s *Service) handleGeometry(c echo.Context) error {
	g, err := s.Geometry()
	if err != nil {
		c.Logger().Errorf("fbgrab serve: geometry: %v", err)
		return captureError(err)
	}

	return c.JSON(http.StatusOK, &g)
}
