/*
Package config loads the optional ngmenu project file.

	            +-------------+
	            |   Config    |
	            |  (Options)  |
	            +------+------+
	                   |
	      +-----------+-----------+-----------+
	      |           |           |           |
	+-----+-----+ +---+---+ +-----+-----+     |
	|   YAML    | |  HCL  | |   JSON    |   flags
	|  Parser   | |Parser | |  Parser   | (override)
	+-----------+ +-------+ +-----------+

🎯 Purpose:
- Finds .ngmenu.{yaml,yml,hcl,json} in the project directory
- Parses it with the parser registered for its extension
- Fills defaults and rejects bad values

🔄 Flow:
1. Discover looks for a config file next to angular.json
2. Load picks a parser through the registry and decodes strictly
3. Validate sets defaults (bootstrap version 4.0.0) and checks globs
4. The add command lets explicit flags win over file values

🔍 Example:

	path, ok, err := config.Discover(ctx, projectDir)
	if err != nil {
		return err
	}
	cfg := &config.Config{}
	if ok {
		cfg, err = config.Load(ctx, path)
	}
*/
package config
