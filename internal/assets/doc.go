// Package assets provides CSS styles and the HTML page template used for
// standalone output.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the converter. A custom directory may
// override a single style or the page template while the rest falls back to
// the embedded defaults.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css       # e.g. default.css, plain.css
//	└── templates/
//	    └── {name}.html      # e.g. page.html
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
