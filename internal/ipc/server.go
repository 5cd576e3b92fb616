package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"log/slog"

	"wisdomtree/internal/daemon"
	"wisdomtree/internal/logging"
	"wisdomtree/internal/logs"
	"wisdomtree/internal/player"
	"wisdomtree/internal/radio"
	"wisdomtree/internal/sessions"
	"wisdomtree/internal/timer"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("WisdomTree", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldErrorHint, "Check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String(logging.FieldErrorHint, "Remove the socket file manually or rerun wisdomtree stop"))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func timerState(snap timer.Snapshot) TimerState {
	return TimerState{
		Phase:            string(snap.Phase),
		Preset:           snap.Preset,
		Paused:           snap.Paused,
		RemainingSeconds: int64(snap.Remaining.Round(time.Second).Seconds()),
	}
}

func playerState(snap player.Snapshot) PlayerState {
	return PlayerState(snap)
}

func radioState(snap radio.Snapshot) RadioState {
	return RadioState{
		Station:      snap.Station,
		URL:          snap.URL,
		Playing:      snap.Playing,
		StationIndex: snap.StationIndex,
		StationCount: snap.StationCount,
	}
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	s.log().Info("daemon stopped via IPC",
		logging.String(logging.FieldEventType, "daemon_stop"))
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	resp.LockPath = status.LockFilePath
	resp.DBPath = status.DBPath
	resp.Timer = timerState(status.Timer)
	resp.Player = playerState(status.Player)
	resp.Radio = radioState(status.Radio)
	resp.TreeAge = status.TreeAge
	resp.TreeStage = status.TreeStage
	resp.Season = status.Season
	resp.Quote = status.Quote
	resp.QuoteSource = status.QuoteSource
	resp.QuoteCount = status.QuoteCount
	return nil
}

func (s *service) TimerStart(req TimerStartRequest, resp *TimerStartResponse) error {
	preset, err := s.daemon.ResolvePreset(req.PresetIndex, req.WorkMinutes, req.BreakMinutes)
	if err != nil {
		return err
	}
	snap, err := s.daemon.StartTimer(s.ctx, preset)
	if err != nil {
		return err
	}
	resp.Timer = timerState(snap)
	return nil
}

func (s *service) TimerPause(_ TimerControlRequest, resp *TimerControlResponse) error {
	if err := s.daemon.PauseTimer(); err != nil {
		return err
	}
	resp.Timer = timerState(s.daemon.TimerSnapshot())
	return nil
}

func (s *service) TimerResume(_ TimerControlRequest, resp *TimerControlResponse) error {
	if err := s.daemon.ResumeTimer(); err != nil {
		return err
	}
	resp.Timer = timerState(s.daemon.TimerSnapshot())
	return nil
}

func (s *service) TimerRestart(_ TimerControlRequest, resp *TimerControlResponse) error {
	snap, err := s.daemon.RestartTimer(s.ctx)
	if err != nil {
		return err
	}
	resp.Timer = timerState(snap)
	return nil
}

func (s *service) TimerStop(_ TimerControlRequest, resp *TimerControlResponse) error {
	if err := s.daemon.StopTimer(s.ctx); err != nil {
		return err
	}
	resp.Timer = timerState(s.daemon.TimerSnapshot())
	return nil
}

func (s *service) PlayerPlay(_ PlayerControlRequest, resp *PlayerControlResponse) error {
	if err := s.daemon.PlayMusic(); err != nil {
		return err
	}
	resp.Player = playerState(s.daemon.Status(s.ctx).Player)
	return nil
}

func (s *service) PlayerToggle(_ PlayerControlRequest, resp *PlayerControlResponse) error {
	s.daemon.TogglePlayback()
	resp.Player = playerState(s.daemon.Status(s.ctx).Player)
	return nil
}

func (s *service) PlayerNext(_ PlayerControlRequest, resp *PlayerControlResponse) error {
	if err := s.daemon.NextTrack(); err != nil {
		return err
	}
	resp.Player = playerState(s.daemon.Status(s.ctx).Player)
	return nil
}

func (s *service) PlayerPrev(_ PlayerControlRequest, resp *PlayerControlResponse) error {
	if err := s.daemon.PrevTrack(); err != nil {
		return err
	}
	resp.Player = playerState(s.daemon.Status(s.ctx).Player)
	return nil
}

func (s *service) PlayerStop(_ PlayerControlRequest, resp *PlayerControlResponse) error {
	s.daemon.StopMusic()
	resp.Player = playerState(s.daemon.Status(s.ctx).Player)
	return nil
}

func (s *service) SetVolume(req VolumeRequest, resp *VolumeResponse) error {
	var volume int
	if req.Delta != 0 {
		volume = s.daemon.AdjustVolume(req.Delta)
	} else {
		s.daemon.SetVolume(req.Volume)
		volume = req.Volume
	}
	state := s.daemon.Status(s.ctx).Player
	resp.Volume = volume
	resp.Muted = state.Muted
	return nil
}

func (s *service) ToggleMute(_ MuteRequest, resp *MuteResponse) error {
	resp.Muted = s.daemon.ToggleMute()
	return nil
}

func (s *service) ToggleLoop(_ LoopRequest, resp *LoopResponse) error {
	resp.Loop = s.daemon.ToggleLoop()
	return nil
}

func (s *service) ToggleEffects(_ EffectsRequest, resp *EffectsResponse) error {
	resp.Enabled = s.daemon.ToggleEffects()
	return nil
}

func (s *service) AdjustEffectVolume(req EffectVolumeRequest, resp *EffectVolumeResponse) error {
	resp.Volume = s.daemon.AdjustEffectVolume(req.Delta)
	return nil
}

func (s *service) RadioTune(req RadioTuneRequest, resp *RadioTuneResponse) error {
	var err error
	switch {
	case req.Next:
		err = s.daemon.NextStation(s.ctx)
	case req.Prev:
		err = s.daemon.PrevStation(s.ctx)
	default:
		err = s.daemon.TuneRadio(s.ctx, req.StationIndex)
	}
	if err != nil {
		return err
	}
	resp.Radio = radioState(s.daemon.Status(s.ctx).Radio)
	return nil
}

func (s *service) RadioStop(_ RadioStopRequest, resp *RadioStopResponse) error {
	s.daemon.StopRadio()
	resp.Stopped = true
	return nil
}

func (s *service) StationList(_ StationListRequest, resp *StationListResponse) error {
	for _, station := range s.daemon.Stations() {
		resp.Stations = append(resp.Stations, Station{Name: station.Name, URL: station.URL})
	}
	return nil
}

func (s *service) Quote(req QuoteRequest, resp *QuoteResponse) error {
	if req.Rotate {
		resp.Quote = s.daemon.RotateQuote(s.ctx)
	} else {
		resp.Quote = s.daemon.Quote()
	}
	resp.Source = s.daemon.Status(s.ctx).QuoteSource
	return nil
}

func (s *service) HistoryList(req HistoryListRequest, resp *HistoryListResponse) error {
	status, err := sessions.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	list, err := s.daemon.ListSessions(s.ctx, status, req.Limit)
	if err != nil {
		return err
	}
	resp.Sessions = make([]SessionRecord, 0, len(list))
	for _, session := range list {
		resp.Sessions = append(resp.Sessions, sessionRecord(session))
	}
	return nil
}

func sessionRecord(session *sessions.Session) SessionRecord {
	record := SessionRecord{
		ID:            session.ID,
		Preset:        session.Preset,
		WorkSeconds:   session.WorkSeconds,
		BreakSeconds:  session.BreakSeconds,
		Status:        string(session.Status),
		StartedAt:     session.StartedAt.Format(time.RFC3339),
		WorkCompleted: session.WorkCompleted,
	}
	if !session.EndedAt.IsZero() {
		record.EndedAt = session.EndedAt.Format(time.RFC3339)
	}
	return record
}

func (s *service) HistoryStats(_ HistoryStatsRequest, resp *HistoryStatsResponse) error {
	summary, err := s.daemon.SessionStats(s.ctx)
	if err != nil {
		return err
	}
	resp.Total = summary.Total
	resp.Completed = summary.Completed
	resp.Abandoned = summary.Abandoned
	resp.Interrupted = summary.Interrupted
	resp.Running = summary.Running
	resp.FocusSeconds = summary.FocusSeconds
	for _, day := range summary.Days {
		resp.Days = append(resp.Days, DayFocus{
			Date:         day.Date,
			Sessions:     day.Sessions,
			FocusSeconds: day.FocusSeconds,
		})
	}
	if !summary.FirstSession.IsZero() {
		resp.FirstSession = summary.FirstSession.Format(time.RFC3339)
	}
	if !summary.LatestSession.IsZero() {
		resp.LatestSession = summary.LatestSession.Format(time.RFC3339)
	}
	status := s.daemon.Status(s.ctx)
	resp.TreeAge = status.TreeAge
	resp.TreeStage = status.TreeStage
	return nil
}

func (s *service) HistoryClear(_ HistoryClearRequest, resp *HistoryClearResponse) error {
	s.log().Debug("history clear requested")
	removed, err := s.daemon.ClearHistory(s.ctx)
	if err != nil {
		return err
	}
	resp.Removed = removed
	return nil
}

func (s *service) DatabaseHealth(_ DatabaseHealthRequest, resp *DatabaseHealthResponse) error {
	health, err := s.daemon.DatabaseHealth(s.ctx)
	if err != nil && health.Error == "" {
		return err
	}
	resp.DBPath = health.DBPath
	resp.DatabaseExists = health.DatabaseExists
	resp.DatabaseReadable = health.DatabaseReadable
	resp.TableExists = health.TableExists
	resp.MissingColumns = append(resp.MissingColumns, health.MissingColumns...)
	resp.TotalSessions = health.TotalSessions
	resp.IntegrityCheck = health.IntegrityCheck
	resp.Error = health.Error
	return err
}

func (s *service) LogTail(req LogTailRequest, resp *LogTailResponse) error {
	logPath := s.daemon.LogPath()
	if logPath == "" {
		resp.Offset = 0
		return nil
	}
	wait := time.Duration(req.WaitMillis) * time.Millisecond
	if wait <= 0 && req.Follow {
		wait = time.Second
	}
	options := logs.TailOptions{
		Offset:    req.Offset,
		Limit:     req.Limit,
		Follow:    req.Follow,
		Wait:      wait,
		Level:     req.Level,
		Component: req.Component,
	}
	ctx := s.ctx
	if req.Follow && wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, wait+500*time.Millisecond)
		defer cancel()
	}
	result, err := logs.Tail(ctx, logPath, options)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			resp.Offset = result.Offset
			return nil
		}
		return err
	}
	resp.Lines = result.Lines
	resp.Offset = result.Offset
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	return err
}
