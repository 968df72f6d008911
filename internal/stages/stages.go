package stages

import (
	"git.home.luguber.info/inful/pkgfoundry/internal/pipeline"
	"git.home.luguber.info/inful/pkgfoundry/internal/templates"
)

// All returns the full stage sequence in execution order.
func All(store *templates.Store, engine *templates.Engine) []pipeline.Stage {
	return []pipeline.Stage{
		&Validation{Store: store},
		&Generation{Engine: engine},
		&Testing{},
		NewDocumentation(),
		&Packaging{},
	}
}
