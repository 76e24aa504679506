package main

import (
	"math"

	"github.com/aretw0/spatialnotes"
	"github.com/aretw0/spatialnotes/pkg/scene"
	"github.com/aretw0/spatialnotes/pkg/spatial"
	"github.com/spf13/cobra"
)

var (
	cameraAt  string
	cameraYaw float64
)

// addCameraFlags registers the simulated observer pose flags on cmd.
func addCameraFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cameraAt, "camera", "", "Observer position as x,y,z (default: tracking unavailable)")
	cmd.Flags().Float64Var(&cameraYaw, "yaw", 0, "Observer heading in degrees, counterclockwise seen from above")
}

// simulatedHost builds an in-memory scene with the flagged observer pose.
func simulatedHost() *scene.Memory {
	host := scene.NewMemory()
	if cameraAt == "" {
		return host
	}
	pos, err := parseVec(cameraAt)
	if err != nil {
		fatal("Invalid --camera", err)
	}
	host.SetCamera(spatial.Pose{
		Position:    pos,
		Orientation: spatial.AxisAngle(spatial.V(0, 1, 0), cameraYaw*math.Pi/180),
	})
	return host
}

// openSession opens the vault wired to host.
func openSession(host *scene.Memory, extra ...spatialnotes.Option) *spatialnotes.Session {
	opts := commonOptions(spatialnotes.WithMustExist(true), spatialnotes.WithHost(host))
	s, err := spatialnotes.Open(resolveVault(), append(opts, extra...)...)
	if err != nil {
		fatal("Failed to open vault", err)
	}
	return s
}
