package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/smallwat3r/textdrop/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultBaseURL = "http://localhost:8080"

var (
	cfgFile    string
	httpClient = &http.Client{Timeout: 30 * time.Second}
)

// errNotFound mirrors the server's 404 so callers can exit quietly.
var errNotFound = errors.New("text not found or already read")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "textdrop",
		Short:         "Share a text once and fetch it with a short code",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.textdrop.yaml)")
	root.PersistentFlags().String("url", defaultBaseURL, "base URL of the textdrop server (env TEXTDROP_URL)")
	_ = v.BindPFlag("url", root.PersistentFlags().Lookup("url"))

	root.AddCommand(newShareCmd(v), newGetCmd(v))
	return root
}

func initConfig(v *viper.Viper) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".textdrop")
	}

	v.SetEnvPrefix("textdrop")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func newShareCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "share [text|-]",
		Short: "Share a text and print its code (reads stdin when text is - or omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) == 0 || args[0] == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(b)
			} else {
				text = args[0]
			}

			code, err := shareText(v.GetString("url"), text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}
}

func newGetCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Fetch a shared text; it is deleted on the server once read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := getText(v.GetString("url"), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			if !strings.HasSuffix(text, "\n") {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
}

func shareText(baseURL, text string) (string, error) {
	reqBody, err := json.Marshal(domain.ShareReq{Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := strings.TrimRight(baseURL, "/") + "/api/share"
	resp, err := httpClient.Post(endpoint, "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to share text: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", responseError("share", resp)
	}

	var res domain.ShareRes
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return res.Code, nil
}

func getText(baseURL, code string) (string, error) {
	endpoint := strings.TrimRight(baseURL, "/") + "/api/get?code=" + url.QueryEscape(code)
	resp, err := httpClient.Get(endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to get text: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", responseError("get", resp)
	}

	var res domain.GetRes
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return res.Text, nil
}

func responseError(op string, resp *http.Response) error {
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body["error"] != "" {
		return fmt.Errorf("%s failed: %s (status %d)", op, body["error"], resp.StatusCode)
	}
	return fmt.Errorf("%s failed: status %d", op, resp.StatusCode)
}
