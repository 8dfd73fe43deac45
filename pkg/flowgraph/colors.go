package flowgraph

import (
	"fmt"
	"strconv"
)

const (
	defaultNodeColor = "#9CA3AF"
	defaultLinkColor = "rgba(156,163,175,0.6)"

	linkOpacity = 0.6
)

var categoryColors = map[Category]string{
	CategoryTotal:             "#6366F1",
	CategoryPositiveSentiment: "#22C55E",
	CategoryNeutralSentiment:  "#EAB308",
	CategoryNegativeSentiment: "#EF4444",
	CategoryPositiveEmotion:   "#86EFAC",
	CategoryNegativeEmotion:   "#FCA5A5",
}

// ColorOf returns the hex color for a node category. Unknown categories
// fall back to gray so the chart never renders an unstyled node.
func ColorOf(category Category) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return defaultNodeColor
}

// LinkColor returns a translucent rgba() color for a link, derived from
// its target node's category. Links inherit the color of where the flow
// ends up, which visually groups each branch. A dangling link reference
// yields the gray fallback.
func LinkColor(link Link, nodes []Node) string {
	for _, n := range nodes {
		if n.ID == link.Target {
			r, g, b, ok := hexRGB(ColorOf(n.Category))
			if !ok {
				return defaultLinkColor
			}
			return fmt.Sprintf("rgba(%d,%d,%d,%g)", r, g, b, linkOpacity)
		}
	}
	return defaultLinkColor
}

func hexRGB(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	rv, err1 := strconv.ParseUint(hex[1:3], 16, 8)
	gv, err2 := strconv.ParseUint(hex[3:5], 16, 8)
	bv, err3 := strconv.ParseUint(hex[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return int(rv), int(gv), int(bv), true
}
