package templates

// contentBodies holds the builtin content-template sources keyed by
// name. Every body is a text/template executed against RenderData.
var contentBodies = map[string]string{
	"package_init": `"""{{.Description}}"""

__version__ = "{{.Version}}"
__author__ = "{{.Author}}"
__email__ = "{{.Email}}"
`,

	"core_module": `"""
Core module for {{.PackageName}}.
"""

import logging
from typing import Any, Dict, Optional

logger = logging.getLogger(__name__)


class {{classname .PackageName}}:
    """Main class for {{.PackageName}}."""

    def __init__(self, config: Optional[Dict[str, Any]] = None):
        self.config = config or {}
        logger.info("Initialized {{.PackageName}}")

    def run(self) -> Dict[str, Any]:
        """Run the main functionality."""
        logger.info("Running main functionality")
        return {
            "status": "success",
            "message": "Main functionality executed successfully",
            "data": {},
        }

    def process_data(self, data: Any) -> Any:
        """Process input data."""
        logger.info("Processing data")
        return data


def main() -> None:
    """Main entry point."""
    app = {{classname .PackageName}}()
    result = app.run()
    print(f"Result: {result}")


if __name__ == "__main__":
    main()
`,

	"utils_module": `"""
Utility functions for {{.PackageName}}.
"""

import json
import logging
from pathlib import Path
from typing import Any, Dict, Union

logger = logging.getLogger(__name__)


def load_json_file(file_path: Union[str, Path]) -> Dict[str, Any]:
    """Load JSON data from file."""
    with open(file_path, "r", encoding="utf-8") as f:
        return json.load(f)


def save_json_file(data: Dict[str, Any], file_path: Union[str, Path]) -> None:
    """Save data to JSON file."""
    file_path = Path(file_path)
    file_path.parent.mkdir(parents=True, exist_ok=True)
    with open(file_path, "w", encoding="utf-8") as f:
        json.dump(data, f, indent=2, ensure_ascii=False)
    logger.info("Saved data to %s", file_path)


def setup_logging(level: str = "INFO") -> None:
    """Configure package logging."""
    logging.basicConfig(
        level=getattr(logging, level.upper(), logging.INFO),
        format="%(asctime)s %(levelname)s %(name)s: %(message)s",
    )
`,

	"main_module": `"""
Module entry point for python -m {{.PackageName}}.
"""

from .cli import main

if __name__ == "__main__":
    raise SystemExit(main())
`,

	"cli_module": `"""
Command-line interface for {{.PackageName}}.
"""

import sys
from typing import Optional

import click

from .core import {{classname .PackageName}}


@click.group()
@click.version_option("{{.Version}}", prog_name="{{.PackageName}}")
@click.option("--verbose", "-v", is_flag=True, help="Enable verbose output.")
@click.pass_context
def cli(ctx: click.Context, verbose: bool) -> None:
    """{{.Description}}"""
    ctx.ensure_object(dict)
    ctx.obj["verbose"] = verbose


@cli.command()
@click.option("--data", type=str, help="Input data to process.")
@click.pass_context
def run(ctx: click.Context, data: Optional[str]) -> None:
    """Run the main functionality."""
    app = {{classname .PackageName}}()
    result = app.run()
    if data is not None:
        result["data"] = app.process_data(data)
    click.echo(result)


def main() -> int:
    try:
        cli(standalone_mode=False)
        return 0
    except click.ClickException as exc:
        exc.show()
        return exc.exit_code
    except Exception as exc:  # noqa: BLE001
        click.echo(f"Error: {exc}", err=True)
        return 1


if __name__ == "__main__":
    sys.exit(main())
`,

	"fastapi_app": `"""
FastAPI application for {{.PackageName}}.
"""

from fastapi import FastAPI

from .api.routes import router

app = FastAPI(
    title="{{.ProjectName}}",
    description="{{.Description}}",
    version="{{.Version}}",
)
app.include_router(router)


@app.get("/health")
async def health_check() -> dict:
    """Service liveness probe."""
    return {"status": "healthy", "version": "{{.Version}}"}
`,

	"api_routes": `"""
API routes for {{.PackageName}}.
"""

from fastapi import APIRouter, HTTPException

from ..core import {{classname .PackageName}}
from .schemas import ProcessRequest, ProcessResponse

router = APIRouter(prefix="/api/v1", tags=["{{.PackageName}}"])


@router.post("/process", response_model=ProcessResponse)
async def process_data(request: ProcessRequest) -> ProcessResponse:
    """Process input data through the core pipeline."""
    try:
        app = {{classname .PackageName}}()
        result = app.process_data(request.data)
        return ProcessResponse(status="success", result=result)
    except Exception as exc:  # noqa: BLE001
        raise HTTPException(status_code=500, detail=str(exc)) from exc


@router.get("/status")
async def get_status() -> dict:
    """Return service status."""
    return {"status": "operational", "version": "{{.Version}}"}
`,

	"api_schemas": `"""
Pydantic schemas for the {{.PackageName}} API.
"""

from typing import Any, Optional

from pydantic import BaseModel, Field


class ProcessRequest(BaseModel):
    """Request body for the process endpoint."""

    data: Any = Field(..., description="Input data to process")
    options: Optional[dict] = Field(default=None, description="Processing options")


class ProcessResponse(BaseModel):
    """Response body for the process endpoint."""

    status: str
    result: Any = None
`,

	"openai_client": `"""
OpenAI client wrapper for {{.PackageName}}.
"""

import os
from typing import Any, Dict, List, Optional

from openai import AsyncOpenAI


class OpenAIClient:
    """Thin async wrapper around the OpenAI chat API."""

    def __init__(self, api_key: Optional[str] = None, model: str = "gpt-4o-mini"):
        self.client = AsyncOpenAI(api_key=api_key or os.environ.get("OPENAI_API_KEY"))
        self.model = model

    async def chat_completion(
        self,
        messages: List[Dict[str, str]],
        temperature: float = 0.7,
        max_tokens: Optional[int] = None,
    ) -> Dict[str, Any]:
        """Send a chat completion request."""
        response = await self.client.chat.completions.create(
            model=self.model,
            messages=messages,
            temperature=temperature,
            max_tokens=max_tokens,
        )
        return {
            "content": response.choices[0].message.content,
            "model": response.model,
            "usage": response.usage.model_dump() if response.usage else None,
        }
`,

	"pyproject": `[build-system]
requires = ["setuptools>=68", "wheel"]
build-backend = "setuptools.build_meta"

[project]
name = "{{.PackageName}}"
version = "{{.Version}}"
description = "{{.Description}}"
readme = "README.md"
license = {text = "{{.License}}"}
requires-python = "{{.PythonRequire}}"
authors = [{name = "{{.Author}}", email = "{{.Email}}"}]
dependencies = [{{if .Dependencies}}
    {{range .Dependencies}}"{{.}}",
    {{end}}{{end}}]

[project.optional-dependencies]
dev = [{{if .DevDependencies}}
    {{range .DevDependencies}}"{{.}}",
    {{end}}{{end}}]
{{if .Features.CLI}}
[project.scripts]
{{.PackageName}} = "{{.PackageName}}.cli:main"
{{end}}
[tool.setuptools.packages.find]
where = ["src"]

[tool.pytest.ini_options]
testpaths = ["tests"]
addopts = "--cov={{.PackageName}} --cov-report=term-missing"
`,

	"gitignore": `__pycache__/
*.py[cod]
*.egg-info/
dist/
build/
.eggs/
.venv/
venv/
.env
.coverage
htmlcov/
.pytest_cache/
.mypy_cache/
.tox/
.DS_Store
.idea/
.vscode/
`,

	"readme": `# {{.ProjectName}}

{{.Description}}

## Installation

` + "```bash" + `
pip install {{.PackageName}}
` + "```" + `

## Usage
{{if .Features.CLI}}
` + "```bash" + `
{{.PackageName}} run
` + "```" + `
{{end}}{{if .Features.WebFramework}}
` + "```bash" + `
uvicorn {{.PackageName}}.main:app --reload
` + "```" + `

The API documentation is available at http://localhost:8000/docs once the
server is running.
{{end}}
` + "```python" + `
from {{.PackageName}} import {{classname .PackageName}}

app = {{classname .PackageName}}()
result = app.run()
` + "```" + `

## Development

` + "```bash" + `
pip install -e ".[dev]"
{{.TestFramework}}
` + "```" + `

## License

{{.License}} - see [LICENSE](LICENSE) for details.
`,

	"changelog": `# Changelog

All notable changes to this project will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.0.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).

## [Unreleased]

## [{{.Version}}] - {{.Date}}

### Added
- Initial project structure
{{- if .Features.WebFramework}}
- FastAPI web framework integration
{{- end}}
{{- if .Features.AI}}
- OpenAI API integration
{{- end}}
{{- if .Features.Container}}
- Docker support
{{- end}}
{{- if .Features.CreateTests}}
- Test suite with {{.TestFramework}}
{{- end}}
{{- if .Features.CI}}
- CI with GitHub Actions
{{- end}}
`,

	"license_mit": `MIT License

Copyright (c) {{.Year}} {{.Author}}

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
`,

	"dockerfile": `FROM python:3.11-slim

WORKDIR /app

RUN apt-get update && apt-get install -y --no-install-recommends \
    build-essential \
    && rm -rf /var/lib/apt/lists/*

COPY pyproject.toml README.md ./
COPY src ./src
RUN pip install --no-cache-dir .

RUN useradd --create-home --shell /bin/bash app
USER app
{{if .Features.WebFramework}}
EXPOSE 8000
CMD ["uvicorn", "{{.PackageName}}.main:app", "--host", "0.0.0.0", "--port", "8000"]
{{else}}
CMD ["{{.PackageName}}", "run"]
{{end}}`,

	"docker_compose": `services:
  {{.PackageName}}:
    build: .
{{- if .Features.WebFramework}}
    ports:
      - "8000:8000"
{{- end}}
    environment:
      - PYTHONPATH=/app
    volumes:
      - ./data:/app/data
    restart: unless-stopped
`,

	"dockerignore": `.git
.gitignore
README.md
CHANGELOG.md
.pytest_cache
.coverage
htmlcov/
.mypy_cache
.vscode
.idea
*.egg-info
dist/
build/
__pycache__
*.pyc
venv/
.env
`,

	"github_workflow": `name: CI

on:
  push:
    branches: [main]
  pull_request:
    branches: [main]

jobs:
  test:
    runs-on: ubuntu-latest
    strategy:
      matrix:
        python-version: ["3.9", "3.10", "3.11", "3.12"]

    steps:
      - uses: actions/checkout@v4

      - name: Set up Python {{"${{ matrix.python-version }}"}}
        uses: actions/setup-python@v5
        with:
          python-version: {{"${{ matrix.python-version }}"}}

      - name: Install dependencies
        run: |
          python -m pip install --upgrade pip
          pip install -e ".[dev]"

      - name: Lint
        run: |
          ruff check src tests

      - name: Test
        run: |
          {{.TestFramework}} --cov={{.PackageName}} --cov-report=xml

      - name: Upload coverage
        uses: codecov/codecov-action@v4
        with:
          files: ./coverage.xml
`,

	"conftest": `"""
Shared pytest fixtures for {{.PackageName}}.
"""

import pytest

from {{.PackageName}}.core import {{classname .PackageName}}


@pytest.fixture
def app() -> {{classname .PackageName}}:
    """Provide a configured application instance."""
    return {{classname .PackageName}}()
`,

	"test_core": `"""
Tests for {{.PackageName}}.core.
"""
{{if eq .TestFramework "unittest"}}
import unittest

from {{.PackageName}}.core import {{classname .PackageName}}


class TestCore(unittest.TestCase):
    def test_run(self):
        app = {{classname .PackageName}}()
        result = app.run()
        self.assertEqual(result["status"], "success")

    def test_process_data_roundtrip(self):
        app = {{classname .PackageName}}()
        self.assertEqual(app.process_data({"k": 1}), {"k": 1})


if __name__ == "__main__":
    unittest.main()
{{else}}
from {{.PackageName}}.core import {{classname .PackageName}}


def test_run(app: {{classname .PackageName}}) -> None:
    result = app.run()
    assert result["status"] == "success"


def test_process_data_roundtrip(app: {{classname .PackageName}}) -> None:
    assert app.process_data({"k": 1}) == {"k": 1}
{{end}}`,

	"test_cli": `"""
Tests for the {{.PackageName}} command-line interface.
"""

from click.testing import CliRunner

from {{.PackageName}}.cli import cli


def test_version() -> None:
    runner = CliRunner()
    result = runner.invoke(cli, ["--version"])
    assert result.exit_code == 0
    assert "{{.Version}}" in result.output


def test_run_command() -> None:
    runner = CliRunner()
    result = runner.invoke(cli, ["run"])
    assert result.exit_code == 0
    assert "success" in result.output
`,

	"test_api": `"""
Tests for the {{.PackageName}} API.
"""

from fastapi.testclient import TestClient

from {{.PackageName}}.main import app

client = TestClient(app)


def test_health() -> None:
    response = client.get("/health")
    assert response.status_code == 200
    assert response.json()["status"] == "healthy"


def test_process() -> None:
    response = client.post("/api/v1/process", json={"data": {"k": 1}})
    assert response.status_code == 200
    assert response.json()["status"] == "success"
`,

	"test_utils": `"""
Tests for {{.PackageName}}.utils.
"""

from {{.PackageName}}.utils import load_json_file, save_json_file


def test_json_roundtrip(tmp_path) -> None:
    path = tmp_path / "data" / "sample.json"
    save_json_file({"k": 1}, path)
    assert load_json_file(path) == {"k": 1}
`,

	"api_docs": `# {{.ProjectName}} API

{{.Description}}

## Endpoints

| Method | Path | Description |
| --- | --- | --- |
| GET | /health | Liveness probe |
| GET | /api/v1/status | Service status |
| POST | /api/v1/process | Process input data |

Run the server and open http://localhost:8000/docs for the interactive
OpenAPI documentation.
`,
}
