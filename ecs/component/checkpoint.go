package component

type CheckpointPose int

const (
	CheckpointIdle CheckpointPose = iota
	CheckpointFound
	CheckpointActive
)

type Checkpoint struct {
	ID      int
	Checked bool
	Pose    CheckpointPose
}

var CheckpointComponent = NewComponent[Checkpoint]()
