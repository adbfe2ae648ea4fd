package app

import (
	"testing"
)

func TestCommands_Registered(t *testing.T) {
	want := map[string]bool{"mcp": false, "import": false, "events": false, "report": false, "serve": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("%s subcommand not registered on rootCmd", name)
		}
	}
}

func TestMCPCmd_RequiresRequester(t *testing.T) {
	flag := mcpCmd.Flags().Lookup("as")
	if flag == nil {
		t.Fatal("mcp command has no --as flag")
	}
	if _, ok := flag.Annotations["cobra_annotation_bash_completion_one_required_flag"]; !ok {
		t.Error("--as should be required for mcp")
	}
}
