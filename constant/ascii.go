package constant

// AsciiArtLogo is the application's banner shown in the root help text.
const AsciiArtLogo = `
 __  _______ ____  _        _ __   __
 \ \/ /_   _|  _ \| |      / \\ \ / /
  \  /  | | | |_) | |     / _ \\ V /
  /  \  | | |  __/| |___ / ___ \| |
 /_/\_\ |_| |_|   |_____/_/   \_\_|
`
