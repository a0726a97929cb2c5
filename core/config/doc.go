// Package config provides configuration management for the image labeler server.
//
// It uses Viper for loading configuration from a .env file, environment variables
// and command-line flags, with flags taking precedence over the environment and the
// environment over struct-tag defaults.
//
// # Configuration Structure
//
//   - Server: bind host, port, root directory and browser launch (SERVER_HOST,
//     SERVER_PORT, SERVER_ROOT, SERVER_OPEN_BROWSER)
//   - Log: logging level and format (LOG_LEVEL, LOG_FORMAT)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".", cmd.Flags())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Server.URL())
package config
