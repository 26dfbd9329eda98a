package borg

import "context"

// Client issues create, prune and info through an Executor.
type Client struct {
	exec Executor
}

func NewClient(exec Executor) *Client {
	return &Client{exec: exec}
}

// Create makes a new archive. With Progress set, borg runs in the
// foreground on our terminal; otherwise its output is discarded.
func (c *Client) Create(ctx context.Context, o CreateOptions) error {
	mode := Capture
	if o.Progress {
		mode = Interactive
	}
	_, err := c.exec.Run(ctx, Command{Args: CreateArgs(o), Mode: mode})
	return err
}

// Prune applies the retention policy and returns borg's combined output.
func (c *Client) Prune(ctx context.Context, o PruneOptions) (string, error) {
	res, err := c.exec.Run(ctx, Command{Args: PruneArgs(o), Mode: CaptureCombined})
	return res.Stdout, err
}

// Info returns borg's repository summary.
func (c *Client) Info(ctx context.Context, o InfoOptions) (string, error) {
	res, err := c.exec.Run(ctx, Command{Args: InfoArgs(o), Mode: Capture})
	return res.Stdout, err
}
