package domain

// ModeKind - режим взаимодействия с картой. Режимы взаимоисключающие:
// одновременно активен ровно один.
type ModeKind string

const (
	// ModeIdle - обычный режим: клики выбирают дома
	ModeIdle ModeKind = "idle"
	// ModePlacing - добавление новой метки (ПКМ выбирает координаты)
	ModePlacing ModeKind = "placing"
	// ModeRelocating - перенос существующей метки (ЛКМ выбирает новую точку)
	ModeRelocating ModeKind = "relocating"
)

// InteractionMode is a tagged variant: Pending, AddressDraft and TargetID are
// meaningful only for the kind that owns them. Replacing the old pair of
// independent add/move booleans with a single variant makes two simultaneously
// active modes unrepresentable.
type InteractionMode struct {
	Kind ModeKind `json:"kind"`

	// Pending - выбранные, но ещё не подтверждённые координаты
	// (Placing и Relocating)
	Pending *Point `json:"pending,omitempty"`

	// AddressDraft - черновик адреса при создании метки по адресу (Placing)
	AddressDraft string `json:"address_draft,omitempty"`

	// TargetID - дом, который переносится (Relocating)
	TargetID int64 `json:"target_id,omitempty"`
}

// IdleMode returns the neutral mode.
func IdleMode() InteractionMode {
	return InteractionMode{Kind: ModeIdle}
}
