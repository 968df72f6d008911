package templates

// Builtin descriptors constructed in Go so a fresh install works with
// no descriptor directory on disk. They mirror the YAML form exactly;
// user-provided YAML descriptors layer on top through the Store.

type nodePair struct {
	name string
	node *Node
}

func pair(name string, n *Node) nodePair { return nodePair{name: name, node: n} }

// dir builds a directory node preserving the given child order.
func dir(pairs ...nodePair) *Node {
	n := &Node{Children: make(map[string]*Node, len(pairs))}
	for _, p := range pairs {
		n.Children[p.name] = p.node
		n.keys = append(n.keys, p.name)
	}
	return n
}

// tpl builds a file node rendered from a named content template.
func tpl(name string, when ...string) *Node {
	return &Node{File: &FileSpec{Template: name, When: when}}
}

// lit builds a file node with verbatim content.
func lit(content string, when ...string) *Node {
	return &Node{File: &FileSpec{Literal: content, When: when}}
}

func baseDescriptor() *Descriptor {
	return &Descriptor{
		Name:        "base",
		Description: "Minimal installable package with src layout",
		Category:    "core",
		Version:     "1.0.0",
		DevDependencies: []string{
			"pytest>=7.0",
			"pytest-cov>=4.0",
			"ruff>=0.4",
		},
		Structure: dir(
			pair("src", dir(
				pair("{package_name}", dir(
					pair("__init__.py", tpl("package_init")),
					pair("core.py", tpl("core_module")),
					pair("utils.py", tpl("utils_module")),
				)),
			)),
			pair("tests", dir(
				pair("__init__.py", lit("", "create_tests")),
				pair("conftest.py", tpl("conftest", "create_tests")),
				pair("test_core.py", tpl("test_core", "create_tests")),
				pair("test_utils.py", tpl("test_utils", "create_tests")),
			)),
			pair("README.md", tpl("readme")),
			pair("CHANGELOG.md", tpl("changelog")),
			pair("LICENSE", tpl("license_mit")),
			pair("pyproject.toml", tpl("pyproject")),
			pair(".gitignore", tpl("gitignore")),
		),
	}
}

func cliDescriptor() *Descriptor {
	return &Descriptor{
		Name:        "cli",
		Description: "Click command-line interface",
		Category:    "feature",
		Version:     "1.0.0",
		Features:    []string{"cli"},
		Dependencies: []string{
			"click>=8.1",
		},
		Structure: dir(
			pair("src", dir(
				pair("{package_name}", dir(
					pair("cli.py", tpl("cli_module")),
					pair("__main__.py", tpl("main_module")),
				)),
			)),
			pair("tests", dir(
				pair("test_cli.py", tpl("test_cli", "create_tests")),
			)),
		),
	}
}

func webAPIDescriptor() *Descriptor {
	return &Descriptor{
		Name:        "web-api",
		Description: "FastAPI application with versioned routes",
		Category:    "feature",
		Version:     "1.0.0",
		Features:    []string{"web_framework"},
		Dependencies: []string{
			"fastapi>=0.110",
			"uvicorn[standard]>=0.29",
			"pydantic>=2.0",
		},
		DevDependencies: []string{
			"httpx>=0.27",
		},
		Structure: dir(
			pair("src", dir(
				pair("{package_name}", dir(
					pair("main.py", tpl("fastapi_app")),
					pair("api", dir(
						pair("__init__.py", lit("")),
						pair("routes.py", tpl("api_routes")),
						pair("schemas.py", tpl("api_schemas")),
					)),
				)),
			)),
			pair("tests", dir(
				pair("test_api.py", tpl("test_api", "create_tests")),
			)),
			pair("docs", dir(
				pair("api.md", tpl("api_docs", "documentation")),
			)),
		),
	}
}

func aiDescriptor() *Descriptor {
	return &Descriptor{
		Name:        "ai",
		Description: "Async OpenAI client integration",
		Category:    "feature",
		Version:     "1.0.0",
		Features:    []string{"ai"},
		Dependencies: []string{
			"openai>=1.30",
		},
		Structure: dir(
			pair("src", dir(
				pair("{package_name}", dir(
					pair("openai_client.py", tpl("openai_client")),
				)),
			)),
		),
	}
}

// builtinDescriptors returns fresh copies in application order: base
// first, feature descriptors after so their conflicts supersede base.
func builtinDescriptors() []*Descriptor {
	return []*Descriptor{
		baseDescriptor(),
		cliDescriptor(),
		webAPIDescriptor(),
		aiDescriptor(),
	}
}
