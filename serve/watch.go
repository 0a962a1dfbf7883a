package serve

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo"
	"golang.org/x/sync/errgroup"
)

const (
	writeTimeout   = 5 * time.Second
	maxCloseReason = 123
)

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 5 * time.Second,
}

// WatchControl is sent by watchers to change what they receive. Zero fields
// are left unchanged.
type WatchControl struct {
	Resolution int `json:"resolution"`
	// Interval is in milliseconds.
	Interval int `json:"interval"`
}

type watchSettings struct {
	mutex    *sync.Mutex
	factor   int
	interval time.Duration
}

func (w *watchSettings) get() (int, time.Duration) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.factor, w.interval
}

func (w *watchSettings) apply(ctl WatchControl) error {
	if ctl.Resolution < 0 {
		return errors.New("resolution division must be at least 1")
	}
	interval := time.Duration(ctl.Interval) * time.Millisecond
	if ctl.Interval < 0 || (ctl.Interval > 0 && interval < MinInterval) {
		return errors.New("interval must be at least " + MinInterval.String())
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	if ctl.Resolution > 0 {
		w.factor = ctl.Resolution
	}
	if ctl.Interval > 0 {
		w.interval = interval
	}

	return nil
}

func (s *Service) watchSettings(c echo.Context) (*watchSettings, error) {
	factor, err := parseResolution(c)
	if err != nil {
		return nil, err
	}

	settings := &watchSettings{
		mutex:    new(sync.Mutex),
		factor:   factor,
		interval: s.interval,
	}

	if param := c.QueryParam("interval"); param != "" {
		ms, err := strconv.Atoi(param)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid interval: "+param)
		}
		if err := settings.apply(WatchControl{Interval: ms}); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return settings, nil
}

func (s *Service) handleWatch(c echo.Context) error {
	settings, err := s.watchSettings(c)
	if err != nil {
		return err
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	group, ctx := errgroup.WithContext(context.Background())

	group.Go(func() error {
		return s.readControls(c, conn, settings)
	})

	group.Go(func() error {
		err := s.pushFrames(ctx, conn, settings)
		if err != nil {
			reason := err.Error()
			if len(reason) > maxCloseReason {
				reason = reason[:maxCloseReason]
			}
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseInternalServerErr, reason),
				time.Now().Add(writeTimeout))
		}
		// Unblocks readControls.
		conn.Close()
		return err
	})

	err = group.Wait()
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure,
		websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
		c.Logger().Warnf("fbgrab serve: watcher disconnected: %v", err)
	}

	return nil
}

func (s *Service) readControls(c echo.Context, conn *websocket.Conn,
	settings *watchSettings) error {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		if msgType != websocket.BinaryMessage && msgType != websocket.TextMessage {
			continue
		}

		var ctl WatchControl
		if err := json.Unmarshal(data, &ctl); err != nil {
			c.Logger().Warnf("fbgrab serve: bad control message: %v", err)
			continue
		}

		if err := settings.apply(ctl); err != nil {
			c.Logger().Warnf("fbgrab serve: rejected control message: %v", err)
		}
	}
}

func (s *Service) pushFrames(ctx context.Context, conn *websocket.Conn,
	settings *watchSettings) error {
	for {
		factor, interval := settings.get()

		data, err := s.Snapshot(factor)
		if err != nil {
			return err
		}

		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			return err
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}
