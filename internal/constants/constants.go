package constants

// SyntaxTheme is the Chroma syntax highlighting theme used to render the
// transcript and composer text area when no config override is set.
//
// Available themes:
//
// Dark themes (recommended for terminals):
//   - monokai           - Classic Sublime Text theme
//   - dracula           - Popular purple/pink theme
//   - nord              - Cool bluish theme
//   - gruvbox           - Warm, retro colors
//   - onedark           - Atom's One Dark
//   - github-dark       - GitHub's dark theme (current default)
//   - solarized-dark    - Classic Solarized
//   - doom-one          - Emacs Doom theme
//   - doom-one2         - Emacs Doom theme variant
//   - catppuccin-mocha  - Pastel dark theme
//   - catppuccin-frappe - Pastel dark theme variant
//   - catppuccin-macchiato - Pastel dark theme variant
//   - tokyonight-night  - Popular VSCode theme
//   - tokyonight-storm  - Tokyo Night variant
//   - tokyonight-moon   - Tokyo Night variant
//   - aura-theme-dark   - Aura dark theme
//   - aura-theme-dark-soft - Softer Aura dark
//   - rose-pine         - Pine-inspired theme
//   - rose-pine-moon    - Rose Pine dark variant
//   - paraiso-dark      - Paraiso dark theme
//   - native            - Chroma's native dark
//   - vim               - Classic Vim colors
//   - vulcan            - Star Trek inspired
//   - witchhazel        - Purple-ish theme
//   - xcode-dark        - Xcode dark theme
//   - hrdark            - High contrast dark
//
// Light themes:
//   - github            - GitHub's light theme
//   - solarized-light   - Classic Solarized light
//   - gruvbox-light     - Gruvbox light variant
//   - catppuccin-latte  - Pastel light theme
//   - tokyonight-day    - Tokyo Night light
//   - rose-pine-dawn    - Rose Pine light variant
//   - paraiso-light     - Paraiso light theme
//   - modus-operandi    - Emacs light theme
//   - monokailight      - Monokai light variant
//   - vs                - Visual Studio light
//   - xcode             - Xcode light theme
//
// Other themes:
//   - fruity, autumn, friendly, colorful, tango, algol, arduino
//   - base16-snazzy, borland, emacs, pygments, rainbow_dash
//   - and more...
const SyntaxTheme = "github-dark"
