/*
Copyright © 2026 the Optolithium authors.
This file is part of Optolithium.

Optolithium is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Optolithium is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Optolithium.  If not, see <http://www.gnu.org/licenses/>.
*/

package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xthebat/optolithium"
	"github.com/xthebat/optolithium/plot"
)

// Config is the TOML project description consumed by the run command.
type Config struct {
	Mask struct {
		Generator string
		Args      []float64
	}
	Source struct {
		Shape string
		Args  []float64
		StepX float64
		StepY float64
	}
	Tool struct {
		Wavelength float64
		NA         float64
		Reduction  float64
		Flare      float64
		Immersion  float64
	}
	Exposure struct {
		Focus       float64
		Dose        float64
		Correctable float64
	}
	Resist struct {
		Thickness float64
		DillA     float64 `toml:"dill_a"`
		DillB     float64 `toml:"dill_b"`
		DillC     float64 `toml:"dill_c"`
		Index     float64
		PebEa     float64 `toml:"peb_ea"`
		PebLnAr   float64 `toml:"peb_ln_ar"`
		RateModel string  `toml:"rate_model"`
		RateArgs  []float64 `toml:"rate_args"`
	}
	Substrate struct {
		IndexReal float64 `toml:"index_real"`
		IndexImag float64 `toml:"index_imag"`
	}
	Peb struct {
		Time float64
		Temp float64
	}
	Development struct {
		Time float64
	}
	Grid struct {
		StepXY float64 `toml:"step_xy"`
		StepZ  float64 `toml:"step_z"`
	}
	Output struct {
		ProfileCSV  string `toml:"profile_csv"`
		ProfilePlot string `toml:"profile_plot"`
		ImagePlot   string `toml:"image_plot"`
	}
}

var runCmd = &cobra.Command{
	Use:   "run config.toml",
	Short: "Run the simulation pipeline described by a project file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var config Config
		if _, err := toml.DecodeFile(args[0], &config); err != nil {
			return fmt.Errorf("reading %s: %v", args[0], err)
		}
		return run(&config)
	},
}

func run(config *Config) error {
	maskSpec, err := optolithium.LookupPlugin(optolithium.PluginMaskGenerator, config.Mask.Generator)
	if err != nil {
		return err
	}
	mask, err := maskSpec.NewMask(config.Mask.Args)
	if err != nil {
		return err
	}

	sourceSpec, err := optolithium.LookupPlugin(optolithium.PluginSourceShape, config.Source.Shape)
	if err != nil {
		return err
	}
	source, err := optolithium.NewSourceShape(
		sourceSpec.NewSourceShape(config.Source.Args), config.Source.StepX, config.Source.StepY)
	if err != nil {
		return err
	}

	tool := optolithium.NewImagingTool(source, nil, config.Tool.Wavelength,
		config.Tool.NA, config.Tool.Reduction, config.Tool.Flare, config.Tool.Immersion)

	rateSpec, err := optolithium.LookupPlugin(optolithium.PluginDevelopmentModel, config.Resist.RateModel)
	if err != nil {
		return err
	}
	rateArgs := config.Resist.RateArgs
	if len(rateArgs) == 0 {
		rateArgs = rateSpec.Defaults()
	}

	resist := &optolithium.ResistLayer{
		LayerThickness: config.Resist.Thickness,
		Exposure: &optolithium.ExposureResistModel{
			Wavelength: config.Tool.Wavelength,
			A:          config.Resist.DillA,
			B:          config.Resist.DillB,
			C:          config.Resist.DillC,
			N:          config.Resist.Index,
		},
		Peb:  &optolithium.PebResistModel{Ea: config.Resist.PebEa, LnAr: config.Resist.PebLnAr},
		Rate: rateSpec.NewRate(rateArgs),
	}

	stack, err := optolithium.NewWaferStack(
		optolithium.NewConstantLayer(optolithium.SubstrateLayer, 0,
			config.Substrate.IndexReal, config.Substrate.IndexImag),
		resist,
		optolithium.NewConstantLayer(optolithium.EnvironmentLayer, 0,
			real(optolithium.AirRefraction), imag(optolithium.AirRefraction)),
	)
	if err != nil {
		return err
	}

	exposure := &optolithium.Exposure{
		Focus:       config.Exposure.Focus,
		NominalDose: config.Exposure.Dose,
		Correctable: config.Exposure.Correctable,
	}

	diffraction, err := optolithium.CalcDiffraction(tool, mask)
	if err != nil {
		return err
	}
	otf := optolithium.NewOTF(tool, exposure, stack)
	image, err := optolithium.ImageInResist(diffraction, otf, config.Grid.StepXY, config.Grid.StepZ)
	if err != nil {
		return err
	}
	latent := optolithium.LatentImage(image, resist, exposure)
	peb := &optolithium.PostExposureBake{Time: config.Peb.Time, Temp: config.Peb.Temp}
	diffused := optolithium.PebLatentImage(latent, resist, peb)
	times, err := optolithium.DevelopTimeContours(diffused, resist)
	if err != nil {
		return err
	}
	profile, err := optolithium.Profile(times, &optolithium.Development{Time: config.Development.Time})
	if err != nil {
		return err
	}
	log.WithField("polygons", len(profile.Polygons)).Info("profile extracted")

	if config.Output.ImagePlot != "" {
		if err := plot.Image(image, image.Slices()-1, "Image in resist", config.Output.ImagePlot); err != nil {
			return err
		}
	}
	if config.Output.ProfilePlot != "" {
		if err := plot.Profile(profile, "Resist profile", config.Output.ProfilePlot); err != nil {
			return err
		}
	}
	if config.Output.ProfileCSV != "" {
		if err := writeProfileCSV(profile, config.Output.ProfileCSV); err != nil {
			return err
		}
	}
	return nil
}

func writeProfileCSV(profile *optolithium.ResistProfile, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"polygon", "x", "height"}); err != nil {
		return err
	}
	for i, poly := range profile.Polygons {
		for _, pt := range poly.Points() {
			record := []string{
				strconv.Itoa(i),
				strconv.FormatFloat(pt.X, 'g', -1, 64),
				strconv.FormatFloat(pt.Y, 'g', -1, 64),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}
	return w.Error()
}

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List the built-in plugin models",
	Run: func(cmd *cobra.Command, args []string) {
		kinds := []struct {
			kind optolithium.PluginKind
			name string
		}{
			{optolithium.PluginDevelopmentModel, "development models"},
			{optolithium.PluginSourceShape, "source shapes"},
			{optolithium.PluginPupilFilter, "pupil filters"},
			{optolithium.PluginMaskGenerator, "mask generators"},
		}
		for _, k := range kinds {
			fmt.Printf("%s:\n", k.name)
			for _, name := range optolithium.Plugins(k.kind) {
				fmt.Printf("  %s\n", name)
			}
		}
	},
}
