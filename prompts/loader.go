package prompts

import (
	_ "embed"
)

//go:embed agent_research.txt
var AgentResearch string

//go:embed tool_web_search.txt
var ToolWebSearchDesc string

//go:embed tool_discussion_search.txt
var ToolDiscussionSearchDesc string

//go:embed tool_deep_research.txt
var ToolDeepResearchDesc string

//go:embed tool_gpt_research.txt
var ToolGPTResearchDesc string

//go:embed tool_read_page.txt
var ToolReadPageDesc string
