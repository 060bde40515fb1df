/*
Package operation implements the generator chain that adds the responsive menu to a project.

	+-------------+     +-------------+     +-------------+
	|  workspace  | --> |  Generator  | --> |    tree     |
	|  (resolve)  |     |   (steps)   |     |  (staged)   |
	+-------------+     +------+------+     +------+------+
	                           |                   |
	                    +------+------+     +------+------+
	                    |  external   |     |   Commit    |
	                    | (ng add-ons)| <-- | (disk/mem)  |
	                    +-------------+     +-------------+

🎯 Purpose:
- Resolves the project, its module, shell, stylesheet and app component
- Applies every mutation step in a fixed order against one staged tree
- Commits the tree once, then runs the external add-ons

🔄 Flow:
1. Resolve project and files (precondition errors abort here)
2. Module file: declarations, imports, providers
3. Template set expansion (existing files are skipped)
4. Shell head links and body wrapper
5. Stylesheet rules and workspace build styles
6. App component tags, routes
7. Commit, then external add-ons

⚡ Steps:
Every anchor based step produces a Step entry in the Report. A step whose
anchor is missing is recorded with Applied=false and a warning; the run
continues. Any error aborts before Commit, so a failed run leaves the
project untouched.

Running twice is not idempotent: splices, array entries and routes are
inserted again. Imports, head elements and build styles are not repeated.

🔍 Example:

	gen, err := operation.New(operation.Deps{Tree: t, Runner: &external.ExecRunner{Dir: dir}})
	if err != nil {
		return err
	}
	report, err := gen.Run(ctx, operation.Options{Project: "demo"})
*/
package operation
