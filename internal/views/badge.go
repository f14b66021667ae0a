package views

type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneNeutral Tone = "neutral"
)

type Variant string

const (
	VariantDefault   Variant = "default"
	VariantSecondary Variant = "secondary"
	VariantOutline   Variant = "outline"
)

type Badge struct {
	Label   string
	Tone    Tone
	Variant Variant
}

func (b Badge) Class() string {
	return "badge badge-" + string(b.Tone) + " badge-" + string(b.Variant)
}

// StatusBadge maps an organization status or a member role to its badge.
// Tags match exactly; anything else is shown as is with the neutral style.
func StatusBadge(tag string) Badge {
	switch tag {
	case "active":
		return Badge{Label: "Active", Tone: ToneSuccess, Variant: VariantDefault}
	case "admin":
		return Badge{Label: "Admin", Tone: ToneSuccess, Variant: VariantDefault}
	case "inactive":
		return Badge{Label: "Inactive", Tone: ToneWarning, Variant: VariantSecondary}
	case "co-admin":
		return Badge{Label: "Co-admin", Tone: ToneWarning, Variant: VariantSecondary}
	case "user":
		return Badge{Label: "User", Tone: ToneNeutral, Variant: VariantOutline}
	default:
		return Badge{Label: tag, Tone: ToneNeutral, Variant: VariantOutline}
	}
}
