package internal

// Version is the application version shown in the window title and --version output
const Version = "0.3.0"

// AppTitle is the application name used in window titles
const AppTitle = "rstedit"
