package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Stop requests daemon shutdown.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("WisdomTree.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("WisdomTree.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TimerStart begins a pomodoro cycle.
func (c *Client) TimerStart(req TimerStartRequest) (*TimerStartResponse, error) {
	var resp TimerStartResponse
	if err := c.client.Call("WisdomTree.TimerStart", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TimerPause freezes the countdown.
func (c *Client) TimerPause() (*TimerControlResponse, error) {
	var resp TimerControlResponse
	if err := c.client.Call("WisdomTree.TimerPause", TimerControlRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TimerResume continues a paused countdown.
func (c *Client) TimerResume() (*TimerControlResponse, error) {
	var resp TimerControlResponse
	if err := c.client.Call("WisdomTree.TimerResume", TimerControlRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TimerRestart starts a fresh cycle with the last finished preset.
func (c *Client) TimerRestart() (*TimerControlResponse, error) {
	var resp TimerControlResponse
	if err := c.client.Call("WisdomTree.TimerRestart", TimerControlRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TimerStop abandons the running cycle.
func (c *Client) TimerStop() (*TimerControlResponse, error) {
	var resp TimerControlResponse
	if err := c.client.Call("WisdomTree.TimerStop", TimerControlRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PlayerPlay starts local music playback.
func (c *Client) PlayerPlay() (*PlayerControlResponse, error) {
	var resp PlayerControlResponse
	if err := c.client.Call("WisdomTree.PlayerPlay", PlayerControlRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PlayerToggle flips pause on the local player.
func (c *Client) PlayerToggle() (*PlayerControlResponse, error) {
	var resp PlayerControlResponse
	if err := c.client.Call("WisdomTree.PlayerToggle", PlayerControlRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PlayerNext skips to the following track.
func (c *Client) PlayerNext() (*PlayerControlResponse, error) {
	var resp PlayerControlResponse
	if err := c.client.Call("WisdomTree.PlayerNext", PlayerControlRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PlayerPrev returns to the previous track.
func (c *Client) PlayerPrev() (*PlayerControlResponse, error) {
	var resp PlayerControlResponse
	if err := c.client.Call("WisdomTree.PlayerPrev", PlayerControlRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PlayerStop halts local playback.
func (c *Client) PlayerStop() (*PlayerControlResponse, error) {
	var resp PlayerControlResponse
	if err := c.client.Call("WisdomTree.PlayerStop", PlayerControlRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetVolume applies or shifts the shared music volume.
func (c *Client) SetVolume(req VolumeRequest) (*VolumeResponse, error) {
	var resp VolumeResponse
	if err := c.client.Call("WisdomTree.SetVolume", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToggleMute flips the mute state.
func (c *Client) ToggleMute() (*MuteResponse, error) {
	var resp MuteResponse
	if err := c.client.Call("WisdomTree.ToggleMute", MuteRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToggleLoop flips playlist looping.
func (c *Client) ToggleLoop() (*LoopResponse, error) {
	var resp LoopResponse
	if err := c.client.Call("WisdomTree.ToggleLoop", LoopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToggleEffects flips the synthesized effect tones.
func (c *Client) ToggleEffects() (*EffectsResponse, error) {
	var resp EffectsResponse
	if err := c.client.Call("WisdomTree.ToggleEffects", EffectsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdjustEffectVolume shifts the effect volume by a delta.
func (c *Client) AdjustEffectVolume(delta int) (*EffectVolumeResponse, error) {
	var resp EffectVolumeResponse
	if err := c.client.Call("WisdomTree.AdjustEffectVolume", EffectVolumeRequest{Delta: delta}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RadioTune connects to a configured station.
func (c *Client) RadioTune(req RadioTuneRequest) (*RadioTuneResponse, error) {
	var resp RadioTuneResponse
	if err := c.client.Call("WisdomTree.RadioTune", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RadioStop disconnects the tuner.
func (c *Client) RadioStop() (*RadioStopResponse, error) {
	var resp RadioStopResponse
	if err := c.client.Call("WisdomTree.RadioStop", RadioStopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StationList fetches the configured stations.
func (c *Client) StationList() (*StationListResponse, error) {
	var resp StationListResponse
	if err := c.client.Call("WisdomTree.StationList", StationListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Quote fetches the current quote, optionally rotating first.
func (c *Client) Quote(rotate bool) (*QuoteResponse, error) {
	var resp QuoteResponse
	if err := c.client.Call("WisdomTree.Quote", QuoteRequest{Rotate: rotate}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HistoryList returns recent sessions, optionally filtered by status.
func (c *Client) HistoryList(status string, limit int) (*HistoryListResponse, error) {
	var resp HistoryListResponse
	req := HistoryListRequest{Status: status, Limit: limit}
	if err := c.client.Call("WisdomTree.HistoryList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HistoryStats aggregates the full history.
func (c *Client) HistoryStats() (*HistoryStatsResponse, error) {
	var resp HistoryStatsResponse
	if err := c.client.Call("WisdomTree.HistoryStats", HistoryStatsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HistoryClear deletes all recorded sessions.
func (c *Client) HistoryClear() (*HistoryClearResponse, error) {
	var resp HistoryClearResponse
	if err := c.client.Call("WisdomTree.HistoryClear", HistoryClearRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DatabaseHealth retrieves detailed database diagnostics.
func (c *Client) DatabaseHealth() (*DatabaseHealthResponse, error) {
	var resp DatabaseHealthResponse
	if err := c.client.Call("WisdomTree.DatabaseHealth", DatabaseHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogTail returns log lines from the daemon.
func (c *Client) LogTail(req LogTailRequest) (*LogTailResponse, error) {
	var resp LogTailResponse
	if err := c.client.Call("WisdomTree.LogTail", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("WisdomTree.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
