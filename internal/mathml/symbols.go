package mathml

// symbol is how a no-argument command renders.
type symbol struct {
	tag  string // mi or mo
	text string
}

func ident(s string) symbol { return symbol{tag: "mi", text: s} }
func op(s string) symbol    { return symbol{tag: "mo", text: s} }

var symbols = map[string]symbol{
	// Greek
	"alpha": ident("α"), "beta": ident("β"), "gamma": ident("γ"), "delta": ident("δ"),
	"epsilon": ident("ϵ"), "varepsilon": ident("ε"), "zeta": ident("ζ"), "eta": ident("η"),
	"theta": ident("θ"), "vartheta": ident("ϑ"), "iota": ident("ι"), "kappa": ident("κ"),
	"lambda": ident("λ"), "mu": ident("μ"), "nu": ident("ν"), "xi": ident("ξ"),
	"omicron": ident("ο"), "pi": ident("π"), "varpi": ident("ϖ"), "rho": ident("ρ"),
	"varrho": ident("ϱ"), "sigma": ident("σ"), "varsigma": ident("ς"), "tau": ident("τ"),
	"upsilon": ident("υ"), "phi": ident("ϕ"), "varphi": ident("φ"), "chi": ident("χ"),
	"psi": ident("ψ"), "omega": ident("ω"),
	"Alpha": ident("Α"), "Beta": ident("Β"), "Gamma": ident("Γ"), "Delta": ident("Δ"),
	"Epsilon": ident("Ε"), "Zeta": ident("Ζ"), "Eta": ident("Η"), "Theta": ident("Θ"),
	"Iota": ident("Ι"), "Kappa": ident("Κ"), "Lambda": ident("Λ"), "Mu": ident("Μ"),
	"Nu": ident("Ν"), "Xi": ident("Ξ"), "Omicron": ident("Ο"), "Pi": ident("Π"),
	"Rho": ident("Ρ"), "Sigma": ident("Σ"), "Tau": ident("Τ"), "Upsilon": ident("Υ"),
	"Phi": ident("Φ"), "Chi": ident("Χ"), "Psi": ident("Ψ"), "Omega": ident("Ω"),

	// letter-like
	"infty": ident("∞"), "partial": ident("∂"), "nabla": ident("∇"), "hbar": ident("ℏ"),
	"ell": ident("ℓ"), "emptyset": ident("∅"), "aleph": ident("ℵ"), "angle": ident("∠"),
	"degree": ident("°"), "bigtriangleup": ident("△"),

	// binary operators
	"pm": op("±"), "mp": op("∓"), "times": op("×"), "div": op("÷"), "cdot": op("⋅"),
	"ast": op("∗"), "star": op("⋆"), "circ": op("∘"), "bullet": op("∙"), "cap": op("∩"),
	"cup": op("∪"), "setminus": op("∖"), "oplus": op("⊕"), "otimes": op("⊗"),
	"wedge": op("∧"), "vee": op("∨"), "neg": op("¬"), "prime": op("′"),

	// relations
	"leq": op("≤"), "geq": op("≥"), "neq": op("≠"), "approx": op("≈"), "equiv": op("≡"),
	"sim": op("∼"), "simeq": op("≃"), "cong": op("≅"), "propto": op("∝"), "ll": op("≪"),
	"gg": op("≫"), "in": op("∈"), "notin": op("∉"), "ni": op("∋"), "subset": op("⊂"),
	"supset": op("⊃"), "subseteq": op("⊆"), "supseteq": op("⊇"), "perp": op("⊥"),
	"parallel": op("∥"), "mid": op("∣"), "doteq": op("≐"),

	// arrows
	"to": op("→"), "rightarrow": op("→"), "leftarrow": op("←"), "leftrightarrow": op("↔"),
	"Rightarrow": op("⇒"), "Leftarrow": op("⇐"), "Leftrightarrow": op("⇔"),
	"longrightarrow": op("⟶"), "longleftarrow": op("⟵"), "Longrightarrow": op("⟹"),
	"Longleftrightarrow": op("⟺"), "mapsto": op("↦"), "uparrow": op("↑"), "downarrow": op("↓"),

	// large operators
	"sum": op("∑"), "prod": op("∏"), "coprod": op("∐"), "int": op("∫"), "oint": op("∮"),
	"bigcup": op("⋃"), "bigcap": op("⋂"),

	// logic
	"forall": op("∀"), "exists": op("∃"), "therefore": op("∴"), "because": op("∵"),

	// dots
	"ldots": op("…"), "dots": op("…"), "cdots": op("⋯"), "vdots": op("⋮"), "ddots": op("⋱"),

	// delimiters
	"{": op("{"), "}": op("}"), "lbrace": op("{"), "rbrace": op("}"),
	"langle": op("⟨"), "rangle": op("⟩"), "lceil": op("⌈"), "rceil": op("⌉"),
	"lfloor": op("⌊"), "rfloor": op("⌋"), "vert": op("|"), "Vert": op("‖"),
	"backslash": op("\\"),
}

// Function names render upright as a single identifier.
var functions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "cot": true, "sec": true, "csc": true,
	"arcsin": true, "arccos": true, "arctan": true, "sinh": true, "cosh": true,
	"tanh": true, "coth": true, "log": true, "ln": true, "lg": true, "det": true,
	"dim": true, "deg": true, "gcd": true, "hom": true, "ker": true, "arg": true,
	"Pr": true,
	"lim": true, "liminf": true, "limsup": true, "max": true, "min": true,
	"sup": true, "inf": true,
}

// Functions whose subscript sits underneath.
var limitFunctions = map[string]bool{
	"lim": true, "liminf": true, "limsup": true, "max": true, "min": true,
	"sup": true, "inf": true,
}

// Accents take the following node as their base.
var accents = map[string]string{
	"hat":       "^",
	"widehat":   "^",
	"bar":       "¯",
	"vec":       "→",
	"dot":       "˙",
	"ddot":      "¨",
	"tilde":     "~",
	"widetilde": "~",
}

// Spacing commands and their width.
var spaces = map[string]string{
	",":     "0.167em",
	":":     "0.222em",
	";":     "0.278em",
	"!":     "-0.167em",
	"quad":  "1em",
	"qquad": "2em",
}

// Font commands and the mathvariant they select.
var fonts = map[string]string{
	"mathbf":      "bold",
	"mathit":      "italic",
	"mathsf":      "sans-serif",
	"mathtt":      "monospace",
	"mathcal":     "script",
	"mathscr":     "script",
	"mathbb":      "double-struck",
	"mathfrak":    "fraktur",
	"mathregular": "normal",
	"mathdefault": "",
	"textsf":      "sans-serif",
	"texttt":      "monospace",
	"textcal":     "script",
	"textbb":      "double-struck",
	"textfrak":    "fraktur",
	"textscr":     "script",
	"textdefault": "",
}

// Font switches without an argument. They change nothing in inline output.
var fontSwitches = map[string]bool{
	"rm": true, "cal": true, "it": true, "tt": true, "sf": true, "bf": true,
	"default": true, "bb": true, "frak": true, "scr": true, "regular": true,
}
