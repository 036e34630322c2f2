package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ocr-backend/internal/imageproc"
	"ocr-backend/internal/settings"
)

func newExtractCmd(e env) *cobra.Command {
	var (
		psm, oem      int
		lang          string
		saveBinarized string
	)

	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Binarize an image and print the recognized text",
		Long: `Runs the same preprocessing and OCR as the upload endpoint, without
storing anything. Settings default to OCR_PSM, OCR_OEM and OCR_LANG.

Examples:
  ocrctl extract receipt.jpg
  ocrctl extract scan.png --psm 7 --lang deu --save-binarized scan.bw.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := e.loadConfig()
			s := settings.Resolve(cfg.OCRPSM, cfg.OCROEM, cfg.OCRLang)
			if cmd.Flags().Changed("psm") {
				s.PSM = psm
			}
			if cmd.Flags().Changed("oem") {
				s.OEM = oem
			}
			if cmd.Flags().Changed("lang") {
				s.Lang = lang
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			pre, err := imageproc.Preprocess(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			if saveBinarized != "" {
				out, err := imageproc.EncodePNG(pre.Image)
				if err != nil {
					return err
				}
				if err := os.WriteFile(saveBinarized, out, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "binarized %dx%d at threshold %d -> %s\n",
					pre.Width(), pre.Height(), pre.Threshold, saveBinarized)
			}

			text, err := e.newEngine(cfg).Recognize(cmd.Context(), pre.Image, s)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().IntVar(&psm, "psm", settings.DefaultPSM, "page segmentation mode")
	cmd.Flags().IntVar(&oem, "oem", settings.DefaultOEM, "OCR engine mode")
	cmd.Flags().StringVar(&lang, "lang", settings.DefaultLang, "recognition language")
	cmd.Flags().StringVar(&saveBinarized, "save-binarized", "", "write the binarized raster as PNG to this path")
	return cmd
}
