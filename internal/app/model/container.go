package model

// ContainerPort is one published port mapping of a container.
type ContainerPort struct {
	Private int    `json:"private"`
	Public  int    `json:"public"`
	Type    string `json:"type"`
}

// Container mirrors the subset of Docker container state the dashboard shows.
// The ordering core only ever treats the ID as an opaque foreign key.
type Container struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Image  string          `json:"image"`
	State  string          `json:"state"`
	Status string          `json:"status"`
	Ports  []ContainerPort `json:"ports"`
}

// TailscaleStatus reports whether the host is reachable over Tailscale.
type TailscaleStatus struct {
	Enabled bool    `json:"enabled"`
	IP      *string `json:"ip"`
}
