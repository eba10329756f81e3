package ecs

// System is one stage of a frame. Systems declare Query and Singleton fields
// which the Scheduler wires to its Storage on Register; any other fields are
// private state that survives between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// UpdateFrame is handed to every system during one Scheduler pass.
// DeltaTime is in whatever unit the caller passes to Once.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(dt float64, storage *Storage, commands *Commands) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  commands,
		Storage:   storage,
	}
}
