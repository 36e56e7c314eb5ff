package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var membersAdminAddr string

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "print the membership list of a running server",
	Long:  "print the membership list of a running server",
	Run:   membersRun,
}

func membersRun(cmd *cobra.Command, args []string) {
	resp, err := http.Get("http://" + membersAdminAddr + "/v1/members")
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("unexpected status from admin endpoint: %s", resp.Status)
	}

	var members []struct {
		Addr        string `json:"addr"`
		Status      string `json:"status"`
		Incarnation uint64 `json:"incarnation"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&members); err != nil {
		log.Fatal(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ADDRESS\tSTATUS\tINCARNATION")
	for _, m := range members {
		fmt.Fprintf(w, "%s\t%s\t%d\n", m.Addr, m.Status, m.Incarnation)
	}
	w.Flush()
}

func init() {
	membersCmd.Flags().StringVar(&membersAdminAddr, "admin", "localhost:51080", "admin endpoint of the target server")
}
