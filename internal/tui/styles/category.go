package styles

// Gradient is a two stop button background.
type Gradient struct {
	From string
	To   string
}

// CategoryGradients are the pattern button colors per catalog category.
var CategoryGradients = map[string]Gradient{
	"emotional":     {From: "#ff6b6b", To: "#ffd93d"},
	"notification":  {From: "#4facfe", To: "#00f2fe"},
	"musical":       {From: "#667eea", To: "#764ba2"},
	"gameFeedback":  {From: "#ff0844", To: "#ffb199"},
	"continuous":    {From: "#30cfd0", To: "#330867"},
	"vehicles":      {From: "#f43b47", To: "#453a94"},
	"communication": {From: "#0ba360", To: "#3cba92"},
	"ambient":       {From: "#2af598", To: "#009efd"},
	"status":        {From: "#b721ff", To: "#21d4fd"},
	"exercise":      {From: "#fa709a", To: "#fee140"},
	"navigation":    {From: "#4481eb", To: "#04befe"},
	"productivity":  {From: "#7f7fd5", To: "#86a8e7"},
	"weather":       {From: "#89f7fe", To: "#66a6ff"},
	"social":        {From: "#ff758c", To: "#ff7eb3"},
	"uiFeedback":    {From: "#a8edea", To: "#fed6e3"},
}

// CategoryGradient returns the theme's gradient for category, then the
// shared table, then a flat panel gradient for unknown categories.
func (t Theme) CategoryGradient(category string) Gradient {
	if g, ok := t.Gradients[category]; ok {
		return g
	}
	if g, ok := CategoryGradients[category]; ok {
		return g
	}
	return Gradient{From: t.Tokens.Border, To: t.Tokens.Panel}
}
