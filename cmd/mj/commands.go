package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "config",
			Description: "record config file (yaml)",
			Type:        cli.NamedFuncOpt(cfg.configOpt, "(filepath)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "mj").
		WithSynopsis("mj [opts] command [opts]").
		WithDescription("mj views and edits json, yaml and toml documents with change tracking.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return mjMain(cfg, cc, args)
		}).
		WithSubs(
			ViewCommand(cfg),
			GetCommand(cfg),
			EditCommand(cfg),
			FlushCommand(cfg))
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.View, "view").
		WithAliases("v").
		WithSynopsis("view [files]").
		WithDescription("decode documents and encode them again").
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get <path> [files]").
		WithDescription("print the value at a path such as a.b[2] or \"dotted.key\"[-1]").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func EditCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EditConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Edit, "edit").
		WithAliases("e").
		WithOpts(opts...).
		WithSynopsis("edit [-diff] [-key expr] [-r] [-w] file op...").
		WithDescription(editDescription).
		WithRun(func(cc *cli.Context, args []string) error {
			return edit(cfg, cc, args)
		})
}

func FlushCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FlushConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Flush, "flush").
		WithOpts(opts...).
		WithSynopsis("flush [-dir d] [-create] id op...").
		WithDescription("apply operations to a stored record and save it if its value changed").
		WithRun(func(cc *cli.Context, args []string) error {
			return flush(cfg, cc, args)
		})
}

const editDescription = `edit applies operations to a document and prints the result.

Each operation is a name followed by one argument:

  set p=v          set the field or index at path p to v
  setdefault p=v   set field p to v unless present
  del p            delete the field or index at p
  pop p            delete and print the field or index at p
  append p=v       append v to the list at p
  extend p=[...]   append each element of a json array to the list at p
  remove p=v       remove the first element equal to v from the list at p
  clear p          remove all entries of the map at p
  sort p           sort the list at p

Values are json; anything that is not valid json is taken as a string.
An empty path denotes the document itself, as in 'sort =' or 'clear ""'.

Sort orders null, booleans, numbers, strings, lists then maps. With -key,
the expression is evaluated with 'item' bound to each element and its
results are compared instead.

The number of change notifications the document received is logged.`
